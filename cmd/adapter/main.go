package main

import (
	"context"
	"log/slog"
	"os"

	"stay-event-adapter/cmd/bootstrap"
	"stay-event-adapter/internal/handler"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/fx"
)

func startRuntime(lc fx.Lifecycle, h *handler.StayEventHandler, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting lambda runtime")
			go lambda.Start(h.Handle)
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping lambda runtime")
			return nil
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(
			startRuntime,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop application", "error", err)
	}
}
