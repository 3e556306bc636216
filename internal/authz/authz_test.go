package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/models"
)

func TestIsOwner(t *testing.T) {
	comment := &models.Comment{OwnerID: "u1"}
	video := &models.Video{OwnerID: "u2"}
	playlist := &models.Playlist{OwnerID: "u1"}

	tests := []struct {
		name     string
		actor    string
		resource Owned
		want     bool
	}{
		{"comment owner", "u1", comment, true},
		{"comment stranger", "u2", comment, false},
		{"video owner", "u2", video, true},
		{"playlist owner", "u1", playlist, true},
		{"user owns self", "u3", &models.User{ID: "u3"}, true},
		{"anonymous", "", comment, false},
		{"ownerless resource", "", &models.Post{}, false},
		{"nil resource", "u1", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOwner(tt.actor, tt.resource))
		})
	}
}

func TestRequireOwner(t *testing.T) {
	post := &models.Post{OwnerID: "u1"}

	assert.NoError(t, RequireOwner("u1", post, "post"))

	err := RequireOwner("u2", post, "post")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Equal(t, apperrors.CodeForbidden, apperrors.FromError(err).Code)
}
