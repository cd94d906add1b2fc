// Command floyd-lambda serves the dialogue endpoint as an AWS Lambda
// function behind API Gateway or a function URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/adalundhe/floyd/core/app"
	"github.com/adalundhe/floyd/core/config"
	"github.com/adalundhe/floyd/core/gateway"
	"github.com/adalundhe/floyd/core/storage"
)

func main() {
	handler, err := newHandler(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "floyd-lambda: %v\n", err)
		os.Exit(1)
	}
	lambda.Start(handler.Handle)
}

// newHandler builds the handler once per cold start. Configuration comes
// from the user config layer and the environment.
func newHandler(ctx context.Context) (*gateway.LambdaHandler, error) {
	m := config.NewManager(storage.ResolveDirs())
	if err := m.Load(); err != nil {
		return nil, err
	}
	defer m.Close()

	cfg := m.Get()
	logger, err := config.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	backend := gateway.NewBackend(a.Dispatcher,
		gateway.WithDebugErrors(cfg.Server.DebugErrors),
		gateway.WithTimeout(cfg.Server.Timeout),
		gateway.WithLogger(logger))
	return gateway.NewLambdaHandler(backend), nil
}
