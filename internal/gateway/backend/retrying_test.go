package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/testutil"
)

type flakyGateway struct {
	failures  int
	calls     int
	sendCalls int
	err       error
}

func (f *flakyGateway) fetch() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyGateway) Transactions(context.Context) ([]domain.Transaction, error) {
	if err := f.fetch(); err != nil {
		return nil, err
	}
	return []domain.Transaction{{ID: "1"}}, nil
}

func (f *flakyGateway) Drivers(context.Context) ([]domain.Driver, error) {
	if err := f.fetch(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *flakyGateway) CustomerProfiles(context.Context) ([]domain.Customer, error) {
	if err := f.fetch(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *flakyGateway) ChatFeed(context.Context, domain.UserID) ([]domain.Message, error) {
	if err := f.fetch(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *flakyGateway) SendChat(context.Context, domain.UserID, domain.UserID, string) (domain.Message, error) {
	f.sendCalls++
	return domain.Message{}, f.err
}

type fakeCounter struct{ n int }

func (c *fakeCounter) Inc() { c.n++ }

func testConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetrying_RecoversFromTransientFailure(t *testing.T) {
	t.Parallel()

	next := &flakyGateway{failures: 2, err: apperr.Network}
	retries := &fakeCounter{}
	logs := testutil.NewLogRecorder()
	g := NewRetryingGateway(next, logs, retries, testConfig())

	txs, err := g.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, 3, next.calls)
	require.Equal(t, 2, retries.n)
	require.Len(t, logs.Messages("warn"), 2)
}

func TestRetrying_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	next := &flakyGateway{failures: 10, err: apperr.Network}
	g := NewRetryingGateway(next, logx.Nop(), nil, testConfig())

	_, err := g.Drivers(context.Background())
	require.ErrorIs(t, err, apperr.Network)
	require.Equal(t, 3, next.calls)
}

func TestRetrying_ServerErrorIsFinal(t *testing.T) {
	t.Parallel()

	next := &flakyGateway{failures: 10, err: apperr.Server}
	g := NewRetryingGateway(next, logx.Nop(), nil, testConfig())

	_, err := g.CustomerProfiles(context.Background())
	require.ErrorIs(t, err, apperr.Server)
	require.Equal(t, 1, next.calls)
}

func TestRetrying_AuthExpiredIsFinal(t *testing.T) {
	t.Parallel()

	next := &flakyGateway{failures: 10, err: apperr.AuthExpired}
	g := NewRetryingGateway(next, logx.Nop(), nil, testConfig())

	_, err := g.ChatFeed(context.Background(), "7")
	require.ErrorIs(t, err, apperr.AuthExpired)
	require.Equal(t, 1, next.calls)
}

func TestRetrying_SendIsNeverRetried(t *testing.T) {
	t.Parallel()

	next := &flakyGateway{err: apperr.Network}
	g := NewRetryingGateway(next, logx.Nop(), nil, testConfig())

	_, err := g.SendChat(context.Background(), "7", "10", "hi")
	require.ErrorIs(t, err, apperr.Network)
	require.Equal(t, 1, next.sendCalls)
}

func TestRetrying_CanceledContextStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next := &flakyGateway{failures: 10, err: apperr.Network}
	g := NewRetryingGateway(next, logx.Nop(), nil, testConfig())

	_, err := g.Transactions(ctx)
	require.ErrorIs(t, err, apperr.Network)
	require.Equal(t, 1, next.calls)
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	require.Equal(t, 100*time.Millisecond, backoff(100*time.Millisecond, time.Second, 1))
	require.Equal(t, 200*time.Millisecond, backoff(100*time.Millisecond, time.Second, 2))
	require.Equal(t, time.Second, backoff(100*time.Millisecond, time.Second, 5))
}
