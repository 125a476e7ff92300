package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/campusfeedback/internal/pkg/logger"
	"github.com/yigit/campusfeedback/internal/server"
)

// @title Campus Feedback API
// @version 1.0
// @description Collects student feedback on faculty per subject and reports aggregated ratings to HODs and the principal's office.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token returned by the login endpoints

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Startup failed")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server exited with errors")
		stop()
		os.Exit(1)
	}
}
