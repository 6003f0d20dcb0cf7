package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"PortfolioChat/internal/chatbot"
	"PortfolioChat/internal/chatclient"
	"PortfolioChat/internal/config"
	"PortfolioChat/internal/session"
	"PortfolioChat/internal/store"
	"PortfolioChat/internal/telemetry"
)

func main() {
	cfg := config.Load()
	var apiURL string

	flag.StringVar(&apiURL, "api-url", "", "Chatbot backend URL (default from "+config.EnvBaseURL+" or the deployed backend)")
	flag.StringVar(&cfg.StorePath, "store", cfg.StorePath, "SQLite file that keeps the session id between runs")
	flag.BoolVar(&cfg.Ephemeral, "ephemeral", false, "Keep the session id in memory only")
	flag.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for logs, traces and metrics")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if apiURL != "" {
		cfg.BaseURL = config.ResolveBaseURL(apiURL)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	// Interrupts are only caught while a request is in flight, where they
	// abort that request. At the prompt Ctrl-C ends the process.
	ctx := context.Background()

	tracer, meter, shutdown, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdown()

	var kv store.KV
	if cfg.Ephemeral {
		kv = store.NewMemoryStore()
	} else {
		kv, err = store.OpenSQLite(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
	}
	defer kv.Close()

	if cfg.Debug {
		logger.Debug("debug mode enabled", "base_url", cfg.BaseURL, "store", cfg.StorePath, "ephemeral", cfg.Ephemeral)
	}

	client := chatclient.New(cfg.BaseURL, session.NewTracker(kv, logger), chatclient.Options{
		Logger: logger,
		Tracer: tracer,
		Meter:  meter,
	})

	bot := chatbot.NewChatBot(client, os.Stdin, os.Stdout, logger)
	return bot.Run(ctx)
}
