package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// storeFailure logs a store or provider error and hides it behind UPSTREAM_UNAVAILABLE.
// Errors that already carry a taxonomy code pass through.
func storeFailure(logger *zap.Logger, op string, err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("request canceled", zap.String("op", op))
	} else {
		logger.Error("store failure", zap.String("op", op), zap.Error(err))
	}
	return apperrors.NewUpstreamUnavailable(err)
}
