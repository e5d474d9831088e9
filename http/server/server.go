// Package server provides the fiber based HTTP server of the file service.
package server

import (
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// HTTPServer wraps a fiber app with priority ordered middlewares and
// errx aware error responses. Use NewHTTPServer to create one.
type HTTPServer struct {
	cfg    Config
	router *fiber.App
}

// NewHTTPServer creates a server from cfg. Middlewares run in order of descending priority.
func NewHTTPServer(cfg Config, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
		DisableStartupMessage:    true,
		Immutable:                true,
		BodyLimit:                cfg.BodyLimit,
		EnableSplittingOnParsers: true,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{
		cfg:    cfg,
		router: router,
	}
}

// RegisterRouter registers routes with the provided register function.
func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// App exposes the underlying fiber app, mostly for app.Test in handler tests.
func (s *HTTPServer) App() *fiber.App {
	return s.router
}

// Start listens on the configured address and blocks until Stop.
func (s *HTTPServer) Start() error {
	return errx.Wrap(s.router.Listen(s.cfg.Address()))
}

// Stop gracefully stops the server, letting ongoing requests complete.
func (s *HTTPServer) Stop() error {
	return errx.Wrap(s.router.Shutdown())
}
