package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/dig"

	"github.com/dinosandi/Mobile-Driver/internal/config"
	"github.com/dinosandi/Mobile-Driver/internal/gateway/backend"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/service/chat"
	"github.com/dinosandi/Mobile-Driver/internal/service/tasks"
	"github.com/dinosandi/Mobile-Driver/internal/service/workflow"
	"github.com/dinosandi/Mobile-Driver/internal/session"
	"github.com/dinosandi/Mobile-Driver/internal/transport"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	stdin     io.Reader
	stdout    io.Writer
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		logFatalf: log.Fatalf,
	}
}

// WithStdio sets the terminal streams (used by tests).
func (b *ContainerBuilder) WithStdio(in io.Reader, out io.Writer) *ContainerBuilder {
	if in != nil {
		b.stdin = in
	}
	if out != nil {
		b.stdout = out
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.stdin, b.stdout); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerSession(container); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := registerTransport(container); err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	if err := registerServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() io.Reader { return stdin },
		func() io.Writer { return stdout },
		NewLogger,
		config.Load,
		NewMetrics,
	)
}

func registerSession(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) *session.Handle {
			return session.NewHandle(session.NewFileStore(cfg.SessionFile))
		},
	)
}

func registerTransport(container *dig.Container) error {
	return provideAll(container,
		func(out io.Writer) transport.Notifier {
			return transport.NotifierFunc(func() {
				fmt.Fprintln(out, "Session expired. Please log in again.")
			})
		},
		func(
			cfg *config.Config,
			sess *session.Handle,
			notify transport.Notifier,
			logger logx.Logger,
			m *Metrics,
		) *transport.Client {
			hc := &http.Client{Timeout: cfg.Timeout}
			return transport.New(cfg.BaseURL, hc, sess, notify, logger).
				WithCounters(m.SessionExpired, m.TransportFailures)
		},
	)
}

func registerServices(container *dig.Container) error {
	return provideAll(container,
		backend.New,
		func(gw *backend.Gateway, logger logx.Logger, m *Metrics) *backend.RetryingGateway {
			return backend.NewRetryingGateway(gw, logger, m.FetchRetries, backend.DefaultRetryConfig())
		},
		func(in io.Reader, out io.Writer) workflow.Confirmer {
			return terminalConfirmer{in: bufio.NewReader(in), out: out}
		},
		func(gw *backend.RetryingGateway, logger logx.Logger) *tasks.Service {
			return tasks.NewService(gw, logger)
		},
		func(gw *backend.Gateway, confirm workflow.Confirmer, logger logx.Logger) *workflow.Engine {
			return workflow.NewEngine(gw, confirm, logger)
		},
		func(gw *backend.RetryingGateway, logger logx.Logger, m *Metrics) *chat.Engine {
			return chat.NewEngine(gw, logger).WithRetiredCounter(m.OptimisticRetired)
		},
		NewRunner,
	)
}

// terminalConfirmer asks the y/n question on the terminal. Anything but an
// explicit yes declines.
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c terminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
