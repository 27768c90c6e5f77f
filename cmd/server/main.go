// Package main is the entry point for the code-projectorium server.
//
// main stays minimal: load configuration, build the logger, hand off to
// internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/clwillhuang/code-projectorium/internal/server"
)

func main() {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/projectorium.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	var sessionLifetime time.Duration
	if lifetimeStr := os.Getenv("SESSION_LIFETIME"); lifetimeStr != "" {
		var err error
		sessionLifetime, err = time.ParseDuration(lifetimeStr)
		if err != nil {
			logger.Error("invalid SESSION_LIFETIME value", slog.String("value", lifetimeStr))
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:            port,
		DBPath:          dbPath,
		SessionLifetime: sessionLifetime,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
