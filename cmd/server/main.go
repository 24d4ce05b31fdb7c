package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/server"
	"github.com/dmitrijs2005/blogauth/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
