package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendlog/internal/amqp"
	"spendlog/internal/config"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	gsheet "spendlog/internal/sheets/google"
	"spendlog/internal/storage"
	"spendlog/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = "spendlog-worker"
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting spendlog-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if !cfg.MirrorConfigured() {
		logger.Info("Nothing to do without a configured mirror, exiting",
			"missing", cfg.MissingMirrorConfig())
		return
	}

	var store storage.Store
	var err error
	if cfg.DataBackend == "sqlite" {
		sqliteStore, serr := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if serr != nil {
			logger.Error("Failed to initialize SQLite store", "error", serr, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	} else {
		store, err = storage.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("Failed to initialize file store", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cli, err := gsheet.New(ctx, cfg.SheetsAPIKey, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	mirror := services.NewMirrorService(cli, cli)
	mirrorLog := logger.WithComponent("mirror")
	mirrorLog.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.SpreadsheetID)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, falling back to periodic sweep", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	w := worker.NewMirrorWorker(store, mirror, amqpClient, cfg.SyncInterval)

	// Catch up on anything created while the worker was down.
	if result := w.SyncOnce(ctx); !result.Success {
		mirrorLog.Error("Startup mirror pass failed", "errors", result.Errors)
	} else if result.Synced > 0 {
		mirrorLog.Info("Startup mirror pass synced records", "synced", result.Synced)
	}

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
