package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sahan/schoolpride/internal/pkg/logger"
	"github.com/sahan/schoolpride/internal/server"
)

// @title SchoolPride API
// @version 1.0
// @description API for the school achievements showcase site and its admin panel

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Optional .env file for local development
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
