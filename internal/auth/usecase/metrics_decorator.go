package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	"github.com/allisson/userhub/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "login", status)
	a.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return output, err
}

// Refresh records metrics for token refresh operations.
func (a *authUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Refresh(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "refresh", status)
	a.metrics.RecordDuration(ctx, "auth", "refresh", time.Since(start), status)

	return output, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, refreshToken string) error {
	start := time.Now()
	err := a.next.Logout(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "logout", status)
	a.metrics.RecordDuration(ctx, "auth", "logout", time.Since(start), status)

	return err
}
