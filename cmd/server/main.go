package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Humans-Not-Required/agent-docs/internal/app"
	"github.com/Humans-Not-Required/agent-docs/internal/config"
	"github.com/Humans-Not-Required/agent-docs/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("app: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
