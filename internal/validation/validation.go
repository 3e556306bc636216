package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/vidshare/backend/internal/logger"
	"go.uber.org/zap"
)

const checkTimeout = 10 * time.Second

// Check probes one backing service
type Check func(ctx context.Context) error

// Pinger is satisfied by the redis client
type Pinger interface {
	Ping(ctx context.Context) error
}

// BucketChecker is satisfied by the S3 uploader
type BucketChecker interface {
	CheckBucketAccess(ctx context.Context) error
}

// PingCheck adapts a Pinger. A nil pinger means the service was never connected.
func PingCheck(p Pinger) Check {
	return func(ctx context.Context) error {
		if p == nil {
			return fmt.Errorf("not configured")
		}
		return p.Ping(ctx)
	}
}

// BucketCheck adapts a BucketChecker
func BucketCheck(b BucketChecker) Check {
	return func(ctx context.Context) error {
		if b == nil {
			return fmt.Errorf("not configured")
		}
		return b.CheckBucketAccess(ctx)
	}
}

// ServiceValidator handles validation of required services at startup
type ServiceValidator struct {
	requiredServices []string
	checks           map[string]Check
}

// NewServiceValidator creates a validator over the named checks
func NewServiceValidator(required []string, checks map[string]Check) *ServiceValidator {
	return &ServiceValidator{
		requiredServices: required,
		checks:           checks,
	}
}

// ValidateServices runs the check of every required service and stops at the
// first failure
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.requiredServices) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	logger.Log.Info("🔍 Validating required services",
		zap.Strings("services", sv.requiredServices),
	)

	for _, serviceName := range sv.requiredServices {
		check, ok := sv.checks[serviceName]
		if !ok {
			return fmt.Errorf("required service %q has no check", serviceName)
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.Log.Error("❌ Required service validation failed",
				zap.String("service", serviceName),
				zap.Error(err),
			)
			return fmt.Errorf("required service %q validation failed: %w", serviceName, err)
		}

		logger.Log.Info("✅ Service validated successfully",
			zap.String("service", serviceName),
		)
	}

	logger.Log.Info("✅ All required services validated successfully")
	return nil
}
