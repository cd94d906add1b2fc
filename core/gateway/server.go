package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// DefaultPath is the endpoint accepting payloads.
const DefaultPath = "/chat"

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// Server is the HTTP boundary.
type Server struct {
	echo    *echo.Echo
	backend *Backend
	logger  *slog.Logger
}

// NewServer serves backend on POST path.
func NewServer(backend *Backend, path string) *Server {
	if path == "" {
		path = DefaultPath
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, backend: backend, logger: backend.logger()}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))

	e.POST(path, s.handleChat)
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return s
}

func (s *Server) handleChat(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return s.writeError(c, coreerrors.ErrInvalidRequest)
	}
	payload, err := DecodePayload(data)
	if err != nil {
		return s.writeError(c, err)
	}

	status, body := s.backend.Serve(c.Request().Context(), payload)
	return c.JSON(status, body)
}

func (s *Server) writeError(c echo.Context, err error) error {
	status, body := s.backend.failure(err)
	return c.JSON(status, body)
}

// handleError renders echo's own errors, such as unknown routes, in the
// error body shape.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = http.StatusText(status)
	} else {
		s.logger.Error("unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorBody{Error: message})
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
