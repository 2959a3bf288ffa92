package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fable/pkg/engine"
)

type Server struct {
	Echo   *echo.Echo
	Engine *engine.Engine
	Ctx    context.Context

	// Verbose adds provider error detail to 503 bodies.
	Verbose bool
}

func NewServer(ctx context.Context, eng *engine.Engine, verbose bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:    e,
		Engine:  eng,
		Ctx:     ctx,
		Verbose: verbose,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/suggest-character", s.handleSuggestCharacter) // theme -> {name, personality}
	api.POST("/start-story", s.handleStartStory)             // theme+character -> {opening}
	api.POST("/continue-story", s.handleContinueStory)       // transcript+action -> {segment}
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}
