package main

import (
	"log"

	"github.com/Randy420Marsh/Chess-Analyzer/app"
	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Logs)

	history, err := app.NewHistoryStore(cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open history store")
	}
	defer history.Close()

	session := app.NewSession(cfg.Engine, logger, history)
	server := app.NewServer(logger, session, history)
	defer server.Close()

	// Connect on boot when an engine is configured or installed; clients can
	// always (re)connect through the API.
	if path := cfg.Engine.Path; path != "" {
		_ = session.Connect(path)
	} else if path := app.DetectEngine(); path != "" {
		logger.Info().Str("engine", path).Msg("detected engine on PATH")
		_ = session.Connect(path)
	}

	router := app.NewRouter(server)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
