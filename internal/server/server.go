// Package server exposes the persona chat over HTTP with an embedded widget.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"strings"
	"time"

	"alterego/internal/chat"
	"alterego/internal/logging"
	"alterego/internal/types"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

//go:embed static/index.html
var indexHTML []byte

// Replier produces the final reply for one message.
type Replier interface {
	Run(ctx context.Context, message string, history []types.Turn) (*chat.Outcome, error)
}

// Recorder receives visitor contact details and unanswered questions.
type Recorder interface {
	RecordUserDetails(ctx context.Context, email, name, notes string) map[string]string
	RecordUnknownQuestion(ctx context.Context, question string) map[string]string
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string       `json:"message"`
	History []types.Turn `json:"history"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Reply   string `json:"reply"`
	Revised bool   `json:"revised"`
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// UnknownRequest is the body of POST /api/unknown.
type UnknownRequest struct {
	Question string `json:"question"`
}

// Options configures a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Name            string // persona name shown in the widget
}

// Server is the web chat surface.
type Server struct {
	echo     *echo.Echo
	replier  Replier
	recorder Recorder
	opts     Options
}

// New creates a Server with routes and middleware installed.
func New(replier Replier, recorder Recorder, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		requestLogger(),
	)

	s := &Server{echo: e, replier: replier, recorder: recorder, opts: opts}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.index)

	api := s.echo.Group("/api")
	api.GET("/health", s.health)
	api.POST("/chat", s.chat)
	api.POST("/contact", s.contact)
	api.POST("/unknown", s.unknown)
}

// Start listens on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, nil)
}

// Serve runs on ln (or the configured address when ln is nil) until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if ln != nil {
		s.echo.Listener = ln
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logging.Server("Listening on %s", s.listenAddr(ln))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Server("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) listenAddr(ln net.Listener) string {
	if ln != nil {
		return ln.Addr().String()
	}
	return s.opts.Addr
}

func (s *Server) index(c echo.Context) error {
	name := s.opts.Name
	if name == "" {
		name = "alterego"
	}
	page := strings.ReplaceAll(string(indexHTML), "{{NAME}}", html.EscapeString(name))
	return c.HTML(http.StatusOK, page)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) chat(c echo.Context) error {
	req := new(ChatRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if err := types.ValidateTurns(req.History); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Only the persona prompt may speak as system
	for i, t := range req.History {
		if t.Role == types.RoleSystem {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("history[%d]: system turns are not accepted", i))
		}
	}
	logging.ServerDebug("Chat request with %d history turns", len(req.History))

	out, err := s.replier.Run(c.Request().Context(), req.Message, req.History)
	if err != nil {
		logging.ServerError("Chat failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: out.Reply, Revised: out.Revised})
}

func (s *Server) contact(c echo.Context) error {
	req := new(ContactRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Email) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	return c.JSON(http.StatusOK, s.recorder.RecordUserDetails(c.Request().Context(), req.Email, req.Name, req.Notes))
}

func (s *Server) unknown(c echo.Context) error {
	req := new(UnknownRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}
	return c.JSON(http.StatusOK, s.recorder.RecordUnknownQuestion(c.Request().Context(), req.Question))
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := logging.L().Named(string(logging.CategoryServer))
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
