// cmd/toolchat/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kathir-ks/mcp-toolchat/internal/chat"
	"github.com/kathir-ks/mcp-toolchat/internal/config"
	"github.com/kathir-ks/mcp-toolchat/internal/llmclient"
	"github.com/kathir-ks/mcp-toolchat/internal/toolclient"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	serverSpec   string
	modelName    string
	maxToolCalls int
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "toolchat",
	Short: "Chat with Gemini using tools served over the Model Context Protocol",
	Long: "toolchat starts (or connects to) a tool server, advertises its tools to the model " +
		"and runs an interactive prompt. Type 'exit' or 'quit' to leave.",
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.Version = Version
	rootCmd.Flags().StringVar(&serverSpec, "server", "", "Tool server command line, stdio:// spec or http(s):// URL (overrides TOOL_SERVER)")
	rootCmd.Flags().StringVar(&modelName, "model", "", "Gemini model name (overrides GEMINI_MODEL)")
	rootCmd.Flags().IntVar(&maxToolCalls, "max-tool-calls", 0, "Maximum chained tool calls per turn (overrides MAX_TOOL_CALLS)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// stdout belongs to the conversation.
	log.SetOutput(os.Stderr)

	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("server") {
		cfg.ToolServer = serverSpec
	}
	if cmd.Flags().Changed("model") {
		cfg.GeminiModel = modelName
	}
	if cmd.Flags().Changed("max-tool-calls") {
		cfg.MaxToolCalls = maxToolCalls
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	setupLogging(cfg.LogLevel)
	if err := cfg.ValidateForChat(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Model ---
	model, err := llmclient.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}

	// --- Tool Server ---
	toolClient := toolclient.New("toolchat", Version)
	if err := toolClient.Connect(ctx, cfg.ToolServer); err != nil {
		return err
	}
	defer toolClient.Close()

	// --- Session ---
	orchestrator, err := chat.NewOrchestrator(chat.Deps{
		Model: model,
		Tools: toolClient,
		In:    os.Stdin,
		Out:   os.Stdout,
	}, chat.Options{
		ModelName:    cfg.GeminiModel,
		SystemPrompt: cfg.SystemPrompt,
		MaxToolCalls: cfg.MaxToolCalls,
	})
	if err != nil {
		return err
	}
	if err := orchestrator.Discover(ctx); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"session": orchestrator.SessionID(),
		"model":   cfg.GeminiModel,
		"server":  cfg.ToolServer,
	}).Info("Chat session started")

	err = orchestrator.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stdout, "\nGoodbye!")
		return nil
	}
	return err
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
