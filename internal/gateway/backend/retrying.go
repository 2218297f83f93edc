package backend

import (
	"context"
	"errors"
	"time"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

type readGateway interface {
	Transactions(context.Context) ([]domain.Transaction, error)
	Drivers(context.Context) ([]domain.Driver, error)
	CustomerProfiles(context.Context) ([]domain.Customer, error)
	ChatFeed(context.Context, domain.UserID) ([]domain.Message, error)
	SendChat(ctx context.Context, sender, receiver domain.UserID, text string) (domain.Message, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry behavior of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig is tuned for a foreground client: short, few attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second}
}

// RetryingGateway retries the read-only fetches on transient network
// failures. Mutations are never retried here: a status update or a chat send
// that timed out may still have been applied.
type RetryingGateway struct {
	next    readGateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next with retry behavior.
func NewRetryingGateway(next readGateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Transactions fetches the transaction collection with retries.
func (g *RetryingGateway) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return retry(ctx, g, "Transactions", g.next.Transactions)
}

// Drivers fetches the driver collection with retries.
func (g *RetryingGateway) Drivers(ctx context.Context) ([]domain.Driver, error) {
	return retry(ctx, g, "Drivers", g.next.Drivers)
}

// CustomerProfiles fetches the customer collection with retries.
func (g *RetryingGateway) CustomerProfiles(ctx context.Context) ([]domain.Customer, error) {
	return retry(ctx, g, "CustomerProfiles", g.next.CustomerProfiles)
}

// ChatFeed fetches the message feed with retries.
func (g *RetryingGateway) ChatFeed(ctx context.Context, userID domain.UserID) ([]domain.Message, error) {
	return retry(ctx, g, "ChatFeed", func(ctx context.Context) ([]domain.Message, error) {
		return g.next.ChatFeed(ctx, userID)
	})
}

// SendChat passes through with no retry: a send that timed out may still
// have been delivered, and a blind retry would duplicate the message.
func (g *RetryingGateway) SendChat(ctx context.Context, sender, receiver domain.UserID, text string) (domain.Message, error) {
	return g.next.SendChat(ctx, sender, receiver, text)
}

func retry[T any](ctx context.Context, g *RetryingGateway, method string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("backend fetch retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// isRetryable keeps retries to wire-level failures. Server errors, auth
// expiry and validation failures are final.
func isRetryable(err error) bool {
	return errors.Is(err, apperr.Network)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
