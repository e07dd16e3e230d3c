package app

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"cargotma/internal/config"
)

// Retry runs fn with exponential backoff until it succeeds, the context is
// done or cfg.MaxElapsedTime passes.
func Retry(ctx context.Context, cfg config.RetryConfig, logger *zap.Logger, name string, fn func(context.Context) error) error {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(cfg.InitialInterval),
		backoff.WithMaxInterval(cfg.MaxInterval),
		backoff.WithMaxElapsedTime(cfg.MaxElapsedTime),
	)

	notify := func(err error, next time.Duration) {
		logger.Warn("dependency not ready, retrying",
			zap.String("dependency", name),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	return backoff.RetryNotify(func() error { return fn(ctx) }, backoff.WithContext(b, ctx), notify)
}
