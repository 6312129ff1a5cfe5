// Package main provides the entry point for suitadmin, the admin dashboard
// backend of the suit rental shop.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/api/respond"
	"suitadmin/internal/config"
	"suitadmin/internal/logging"
	"suitadmin/internal/server"
)

// Version information set during build time
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// main is the entry point of suitadmin.
//
// The startup sequence is as follows:
//  1. Load .env and configuration
//  2. Initialize logger
//  3. Setup graceful shutdown handling
//  4. Start the main server
func main() {
	loadEnv()

	// Load application configuration (fails fast on error)
	cfg := loadConfig()

	logging.Setup(cfg.Log)
	respond.Version = Version

	log.Info().
		Str("version", Version).
		Str("commit", GitCommit).
		Str("built", BuildTime).
		Msg("Starting suitadmin")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

// loadEnv reads a .env file from the working directory into the environment
// when one exists. Variables already set win.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to read .env file")
	}
}

// loadConfig loads application configuration and terminates the program
// immediately if configuration cannot be loaded.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().
			Err(err).
			Msg("Failed to load configuration")
	}
	return cfg
}
