package main

import (
	"log/slog"
	"os"

	"taste-tribe/internal/app"
	"taste-tribe/internal/logger"
)

func main() {
	// Replaced by the configured logger once the config is loaded.
	slog.SetDefault(logger.New(os.Stdout, "pretty", "info"))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
