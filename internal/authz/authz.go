// Package authz holds the ownership predicate shared by every mutating route.
package authz

import (
	"fmt"

	apperrors "github.com/vidshare/backend/internal/errors"
)

// Owned is anything with a single owning user
type Owned interface {
	OwnerIdentity() string
}

// IsOwner reports whether actorID owns resource. Anonymous actors own nothing.
func IsOwner(actorID string, resource Owned) bool {
	if actorID == "" || resource == nil {
		return false
	}
	return resource.OwnerIdentity() == actorID
}

// RequireOwner returns an error wrapping ErrForbidden unless actorID owns resource
func RequireOwner(actorID string, resource Owned, name string) error {
	if !IsOwner(actorID, resource) {
		return fmt.Errorf("%s: %w", name, apperrors.ErrForbidden)
	}
	return nil
}
