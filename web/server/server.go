// Package server exposes the path tracer over HTTP: a static viewer, scene
// listing and inspection APIs, and a streaming render endpoint.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/renderer"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// Server handles web requests for the progressive path tracer
type Server struct {
	echo   *echo.Echo
	logger core.Logger
}

// NewServer creates the web server. staticDir holds the viewer frontend and
// may be empty to serve the API only; a nil logger falls back to stdout.
func NewServer(staticDir string, logger core.Logger) *Server {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, logger: logger}
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/inspect", s.handleInspect)
	if staticDir != "" {
		e.Static("/", staticDir)
	}
	return s
}

// Start serves HTTP on the given address until the server is shut down
func (s *Server) Start(addr string) error {
	s.logger.Printf("Serving on http://localhost%s\n", addr)
	return s.echo.Start(addr)
}

// Handler exposes the routing tree, used by tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.List())
}
