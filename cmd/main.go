package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommonlog "github.com/labstack/gommon/log"

	"fable/pkg/config"
	"fable/pkg/engine"
	"fable/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed loading configuration", "error", err)
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	var gen engine.Generator
	if cfg.OpenAIBaseURL != "" || cfg.OpenAIAPIKey != "" {
		g, err := engine.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			log.Fatal("failed creating OpenAI generator", "error", err)
		}
		gen = g
		log.Info("using OpenAI-compatible generator", "model", cfg.OpenAIModel, "base_url", cfg.OpenAIBaseURL)
	} else {
		g, err := engine.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			// The server still starts; requests report the missing
			// credential until one is configured.
			log.Warn("story generator unavailable", "error", err)
		} else {
			gen = g
			log.Info("using Gemini generator", "model", cfg.GeminiModel)
		}
	}

	srv := server.NewServer(ctx, engine.New(gen), cfg.Verbose)
	if cfg.Verbose {
		srv.Echo.Logger.SetLevel(gommonlog.DEBUG)
	}

	addr := ":" + cfg.Port

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("shutdown error", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
	}
	<-finishedShutDown
}
