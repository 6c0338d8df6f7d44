package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/chatrooms/internal/app"
	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Keep the terminal for the conversation
	cfg.Logging.Level = "warn"
	logFile, err := logger.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := newREPL(a.Chat, a.Feed, os.Stdout).Run(ctx, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
