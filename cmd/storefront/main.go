package main

import (
	"context"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/pkg/sigctx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	application := app.New(sigCtx, cfg)
	application.Run(closeApp)

	<-sigCtx.Done()

	shutdownCtx, cancelTimeout := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancelTimeout()

	application.Close(shutdownCtx)
}
