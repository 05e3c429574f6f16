package main

import (
	"flag"
	"os"

	"ai-travel-agent/assistant"
	"ai-travel-agent/config"
	"ai-travel-agent/filter"
	"ai-travel-agent/listings"
	"ai-travel-agent/logger"
	"ai-travel-agent/scheduler"
	"ai-travel-agent/server"
	"ai-travel-agent/session"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	if err := logger.Configure(*logLevel, ""); err != nil {
		logger.Warn("failed to configure logger", "error", err)
	}

	cfg := loadConfig(*configPath)

	ai := assistant.NewClient(cfg, config.APIKey())
	if !ai.IsConfigured() {
		logger.Warn("OPENAI_API_KEY is not set, completions will return a not-configured message")
	}

	queryCache := listings.NewQueryCache(cfg)
	sched := scheduler.NewScheduler(cfg.Listings.SnapshotDir, queryCache)
	ls := listings.NewService(cfg, queryCache, sched.Enqueue)
	sched.Start()
	defer sched.Stop()

	planner := session.NewPlanner(session.NewManager(), ls, filter.NewFilter(cfg), ai)

	srv := server.New(cfg, ai, ls, planner)
	if err := srv.Start(); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}

// loadConfig loads configuration from file or returns defaults.
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		logger.Info("config file not found, using defaults", "path", configPath)
		return config.GetDefaultConfigWithEnv()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		return config.GetDefaultConfigWithEnv()
	}
	return cfg
}
