// cmd/meal-preferences/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"mcp-meal-preferences/internal/config"
	"mcp-meal-preferences/internal/logger"
	"mcp-meal-preferences/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:          "meal-preferences",
		Short:        "Caregiver intake for a resident's meal preferences",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the intake tools over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	setupServeFlags(serveCmd, v)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mcp-meal-preferences version %s\n", server.Version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	return rootCmd
}

func setupServeFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String("transport", v.GetString("transport"), "Transport mode: http")
	flags.String("host", v.GetString("host"), "Host address")
	flags.Int("port", v.GetInt("port"), "Port for HTTP transport")
	flags.String("log-level", v.GetString("log_level"), "Log level: debug, info, warn, error")
	flags.String("log-format", v.GetString("log_format"), "Log format: json or console")
	flags.Duration("notice-ttl", v.GetDuration("notice_ttl"), "How long a validation message stays visible")

	for key, flag := range map[string]string{
		"transport":  "transport",
		"host":       "host",
		"port":       "port",
		"log_level":  "log-level",
		"log_format": "log-format",
		"notice_ttl": "notice-ttl",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

func runServe(parent context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.NewPreferenceServer(cfg, log)
	if err != nil {
		log.Error("Failed to create server", zap.Error(err))
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		log.Error("Server error", zap.Error(runErr))
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}
	return runErr
}
