package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/api/handlers"
	"github.com/linesmerrill/party-cms-api/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	a := handlers.App{}
	a.Config = *config.New()
	defer func() { _ = zap.L().Sync() }()

	//initialize database, services and router
	if err := a.Initialize(); err != nil {
		zap.S().Fatalw("failed to initialize party-cms-api", "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infow("party-cms-api is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
			"env", a.Config.Env,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server stopped unexpectedly", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	zap.S().Info("shutting down party-cms-api")
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("failed to shut down http server", "error", err)
	}
	if err := a.Shutdown(ctx); err != nil {
		zap.S().Errorw("failed to shut down app", "error", err)
	}
}
