// cmd/toolserver/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kathir-ks/mcp-toolchat/internal/app"
	"github.com/kathir-ks/mcp-toolchat/internal/config"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/kathir-ks/mcp-toolchat/internal/tools/builtin"
	"github.com/kathir-ks/mcp-toolchat/internal/toolserver"
	"github.com/kathir-ks/mcp-toolchat/internal/twitter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	httpAddr string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "toolserver",
	Short:        "Serve the add and X/Twitter tools over the Model Context Protocol",
	Long:         "toolserver speaks MCP over stdin/stdout by default, or over streamable HTTP with --http or SERVE_HTTP=true (listening on HTTP_ADDR).",
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Version = Version
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio (e.g. :8090)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol in stdio mode.
	log.SetOutput(os.Stderr)

	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tools ---
	twitterClient := twitter.NewHTTPClient(twitter.Config{
		Credentials: twitter.Credentials{
			APIKey:            cfg.TwitterAPIKey,
			APIKeySecret:      cfg.TwitterAPIKeySecret,
			AccessToken:       cfg.TwitterAccessToken,
			AccessTokenSecret: cfg.TwitterAccessTokenSecret,
		},
		BaseURL: cfg.TwitterBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	toolRegistry := tools.NewMemoryRegistry()
	if err := builtin.RegisterAll(ctx, toolRegistry, twitterClient); err != nil {
		return err
	}
	toolService := app.NewToolService(app.ToolServiceDeps{Registry: toolRegistry})

	// --- Protocol Server ---
	serverCfg := toolserver.DefaultConfig()
	serverCfg.Version = Version
	addr, serveHTTP := cfg.HTTPListenAddr(httpAddr)
	if serveHTTP {
		serverCfg.Addr = addr
	}
	server, err := toolserver.NewServer(ctx, serverCfg, toolService)
	if err != nil {
		return err
	}

	if !serveHTTP {
		return server.Serve(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server gracefully stopped")
	return nil
}

// setupLogging configures the logger.
func setupLogging(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", logLevel, err)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
