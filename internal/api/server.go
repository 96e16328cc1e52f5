package api

import (
	"context"

	"github.com/vytor/mistakeflash/internal/services"
)

// ReadinessChecker reports whether backing storage can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	Mistakes services.MistakeService
	Stats    services.StatsService
	Storage  ReadinessChecker
	Limiter  *RateLimiter
}
