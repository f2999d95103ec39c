package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hetulpatel/appealdigest/internal/app"
	"github.com/hetulpatel/appealdigest/internal/config"
	"github.com/hetulpatel/appealdigest/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Main(ctx, config.ProviderGemini); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Errorf("[gemini-digest] %v", err)
			stop()
			os.Exit(130)
		}
		logging.Fatalf("[gemini-digest] %v", err)
	}
}
