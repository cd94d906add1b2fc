package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/adalundhe/floyd/core/dialogue"
	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/security"
)

// Backend answers payloads with the current dispatcher. Swap installs a
// new dispatcher and Reconfigure new options; requests already in flight
// keep the ones they started with.
type Backend struct {
	current  atomic.Pointer[dialogue.Dispatcher]
	settings atomic.Pointer[settings]
}

type settings struct {
	debug   bool
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*settings)

// WithDebugErrors includes wrapped error internals in error bodies, with
// credentials redacted.
func WithDebugErrors(debug bool) Option {
	return func(s *settings) { s.debug = debug }
}

// WithTimeout bounds each request. Zero means no bound beyond the caller's.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewBackend(d *dialogue.Dispatcher, opts ...Option) *Backend {
	b := &Backend{}
	b.settings.Store(&settings{logger: slog.Default()})
	b.Reconfigure(opts...)
	b.current.Store(d)
	return b
}

// Reconfigure applies opts on top of the current options.
func (b *Backend) Reconfigure(opts ...Option) {
	next := *b.settings.Load()
	for _, opt := range opts {
		opt(&next)
	}
	b.settings.Store(&next)
}

// Swap installs d and returns the previous dispatcher.
func (b *Backend) Swap(d *dialogue.Dispatcher) *dialogue.Dispatcher {
	return b.current.Swap(d)
}

// Dispatcher returns the current dispatcher.
func (b *Backend) Dispatcher() *dialogue.Dispatcher {
	return b.current.Load()
}

// Serve dispatches p and returns the status and body to send.
func (b *Backend) Serve(ctx context.Context, p Payload) (int, any) {
	s := b.settings.Load()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := b.current.Load().Handle(ctx, p.Request())
	if err != nil {
		return s.failure(err)
	}
	return http.StatusOK, NewEnvelope(result)
}

func (b *Backend) failure(err error) (int, ErrorBody) {
	return b.settings.Load().failure(err)
}

func (b *Backend) logger() *slog.Logger {
	return b.settings.Load().logger
}

func (s *settings) failure(err error) (int, ErrorBody) {
	status := coreerrors.StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", security.Redact(err.Error()))
	}
	message := coreerrors.PublicMessage(err, s.debug)
	if s.debug {
		message = security.Redact(message)
	}
	return status, ErrorBody{Error: message}
}
