package marey

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/wire"
)

// MaxBodyBytes bounds a posted envelope
const MaxBodyBytes = 64 << 20

// Server exposes an Engine over HTTP
type Server struct {
	app     *fiber.App
	engine  *Engine
	started time.Time
}

// NewServer registers the API routes
func NewServer(engine *Engine) *Server {
	s := &Server{
		engine:  engine,
		started: time.Now(),
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             MaxBodyBytes,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          30 * time.Second,
			IdleTimeout:           60 * time.Second,
		}),
	}
	s.app.Use(newLogger())

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/diagram", s.handleDiagram)
	return s
}

// StartServer listens on port in the background
func StartServer(engine *Engine, port int) *Server {
	s := NewServer(engine)
	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("server listening")
	return s
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then stops s
func HandleGracefulShutdown(s *Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutdown signal received")
	if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return
	}
	log.Info().Msg("server shut down successfully")
}

// handleDiagram renders a posted CBOR envelope {network, request}.
// Query parameters format, group and train select the output encoding.
func (s *Server) handleDiagram(c *fiber.Ctx) error {
	env, err := wire.DecodeEnvelope(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	out := Output{
		Format: c.Query("format"),
		Group:  c.Query("group"),
		Train:  c.Query("train"),
	}
	body, contentType, err := s.engine.Render(env.Network, env.Request, out)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}

type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	ID    string `json:"id,omitempty"`
}

func writeError(c *fiber.Ctx, err error) error {
	payload := errorPayload{Error: err.Error()}
	var cerr *network.ConstructionError
	var merr *network.MissingEntityError
	switch {
	case errors.As(err, &cerr):
		payload.Kind, payload.ID = cerr.Kind, cerr.ID
	case errors.As(err, &merr):
		payload.Kind, payload.ID = merr.Kind, merr.ID
	}
	return c.Status(StatusFor(err)).JSON(payload)
}

// StatusFor maps engine errors to HTTP status codes
func StatusFor(err error) int {
	var cerr *network.ConstructionError
	var merr *network.MissingEntityError
	switch {
	case errors.Is(err, wire.ErrMalformed):
		return http.StatusBadRequest
	case errors.As(err, &cerr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &merr):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func newLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		startTime := time.Now()
		err = c.Next()

		code := c.Response().StatusCode()
		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("latency", time.Since(startTime).String()).
			Logger()

		switch {
		case code >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("HTTP Request")
		case code >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("HTTP Request")
		default:
			requestLogger.Debug().Msg("HTTP Request")
		}
		return err
	}
}
