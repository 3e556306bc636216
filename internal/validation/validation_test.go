package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type bucket struct{ err error }

func (b bucket) CheckBucketAccess(context.Context) error { return b.err }

func TestValidateServices(t *testing.T) {
	var ran []string
	record := func(name string, err error) Check {
		return func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			ran = append(ran, name)
			return err
		}
	}

	validator := NewServiceValidator([]string{"database", "redis"}, map[string]Check{
		"database": record("database", nil),
		"redis":    record("redis", nil),
		"s3":       record("s3", errors.New("unused")),
	})
	require.NoError(t, validator.ValidateServices(context.Background()))
	assert.Equal(t, []string{"database", "redis"}, ran)
}

func TestValidateServicesStopsAtFirstFailure(t *testing.T) {
	validator := NewServiceValidator([]string{"redis", "s3"}, map[string]Check{
		"redis": PingCheck(pinger{err: errors.New("connection refused")}),
		"s3":    BucketCheck(bucket{}),
	})
	err := validator.ValidateServices(context.Background())
	assert.ErrorContains(t, err, `"redis"`)
	assert.ErrorContains(t, err, "connection refused")
}

func TestValidateServicesMissingCheck(t *testing.T) {
	validator := NewServiceValidator([]string{"s3"}, map[string]Check{})
	assert.ErrorContains(t, validator.ValidateServices(context.Background()), "no check")
}

func TestNilAdapters(t *testing.T) {
	assert.ErrorContains(t, PingCheck(nil)(context.Background()), "not configured")
	assert.ErrorContains(t, BucketCheck(nil)(context.Background()), "not configured")
	assert.NoError(t, BucketCheck(bucket{})(context.Background()))
	assert.NoError(t, NewServiceValidator(nil, nil).ValidateServices(context.Background()))
}
