package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/internal/cli"
	"github.com/aretw0/wayfare/internal/config"
	"github.com/aretw0/wayfare/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "wayfare",
	Short:         "Wayfare is a flight booking dialogue engine",
	Long:          `Wayfare fills source and destination slots from free-text travel requests and serves them over HTTP, Rasa actions and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// setup loads configuration and builds the engine shared by the subcommands.
func setup(cmd *cobra.Command, reg prometheus.Registerer) (*wayfare.Engine, config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, func() {}, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, cfg, nil, func() {}, err
	}
	engine, cleanup, err := cli.BuildEngine(cfg, logger, reg)
	if err != nil {
		return nil, cfg, logger, func() {}, err
	}
	return engine, cfg, logger, cleanup, nil
}
