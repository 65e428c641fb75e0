package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/Chative-support-poc/server/internal/agent/model"
	"github.com/Chative-support-poc/server/internal/core"
	logx "github.com/Chative-support-poc/server/pkg/logger"
	pkgredis "github.com/Chative-support-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the support agent,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogFile     string           `envconfig:"LOG_FILE"`

	// Infrastructure; an empty REDIS_URL selects the in-memory stores
	Redis pkgredis.Config

	// Agent configs
	Conversation model.ConversationConfig
	Classifier   model.ClassifierConfig
	Server       model.ServerConfig
	Chat         model.ChatConfig
}

var envFile string

var rootCmd = &cobra.Command{
	Use:   "support",
	Short: "Customer support dialogue agent",
	Long: `A rule-and-similarity customer support agent.

It answers order tracking, cancellation, returns, payment and small-talk
questions, asking for an order number when one is missing.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

// loadConfig reads the dotenv file, if any, then the process environment.
func loadConfig() (AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return AppConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg AppConfig) {
	logx.Init(logx.LoggerOpts{
		Environment: cfg.Environment,
		File:        cfg.LogFile,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
