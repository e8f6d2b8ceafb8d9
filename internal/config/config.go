// internal/config/config.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvFileName is the optional dotenv file read from the search paths.
const EnvFileName = ".env"

// Config holds all configuration for both binaries.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// --- Model ---
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	SystemPrompt string `mapstructure:"SYSTEM_PROMPT"`

	// --- Orchestrator ---
	ToolServer   string `mapstructure:"TOOL_SERVER"` // command line or http(s):// URL of the tool server
	MaxToolCalls int    `mapstructure:"MAX_TOOL_CALLS"`

	// --- Tool server ---
	ServeHTTP bool   `mapstructure:"SERVE_HTTP"` // streamable HTTP on HTTPAddr instead of stdio
	HTTPAddr  string `mapstructure:"HTTP_ADDR"`

	// --- X API ---
	TwitterAPIKey            string        `mapstructure:"TWITTER_API_KEY"`
	TwitterAPIKeySecret      string        `mapstructure:"TWITTER_API_KEY_SECRET"`
	TwitterAccessToken       string        `mapstructure:"TWITTER_ACCESS_TOKEN"`
	TwitterAccessTokenSecret string        `mapstructure:"TWITTER_ACCESS_TOKEN_SECRET"`
	TwitterBaseURL           string        `mapstructure:"TWITTER_BASE_URL"`
	HTTPTimeout              time.Duration `mapstructure:"-"`
}

// LoadConfig reads defaults, an optional .env file from the given paths (the
// working directory when none are given) and the environment, in increasing
// order of precedence.
func LoadConfig(configPaths ...string) (*Config, error) {
	v := viper.New()

	// --- Set Defaults ---
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("SYSTEM_PROMPT", "")
	v.SetDefault("TOOL_SERVER", "toolserver")
	v.SetDefault("MAX_TOOL_CALLS", 10)
	v.SetDefault("SERVE_HTTP", false)
	v.SetDefault("HTTP_ADDR", ":8090")
	v.SetDefault("TWITTER_API_KEY", "")
	v.SetDefault("TWITTER_API_KEY_SECRET", "")
	v.SetDefault("TWITTER_ACCESS_TOKEN", "")
	v.SetDefault("TWITTER_ACCESS_TOKEN_SECRET", "")
	v.SetDefault("TWITTER_BASE_URL", "https://api.twitter.com")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 0) // 0 disables the client timeout

	// --- Environment Variables ---
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// --- Read .env File ---
	if len(configPaths) == 0 {
		configPaths = []string{"."}
	}
	if envFile := findEnvFile(configPaths); envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Errorf("Error reading config file: %v", err)
			return nil, err
		}
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	} else {
		log.Debug("No .env file found, using defaults and environment variables.")
	}

	// --- Unmarshal into Struct ---
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Errorf("Unable to decode config into struct: %v", err)
		return nil, err
	}

	// --- Post-processing ---
	cfg.HTTPTimeout = time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("Invalid LOG_LEVEL '%s' found in config, defaulting to 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	if cfg.MaxToolCalls <= 0 {
		log.Warnf("Invalid MAX_TOOL_CALLS %d, defaulting to 10", cfg.MaxToolCalls)
		cfg.MaxToolCalls = 10
	}

	return &cfg, nil
}

// ValidateForChat reports the settings the chat client cannot start without.
func (c *Config) ValidateForChat() error {
	var errs []error
	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if strings.TrimSpace(c.ToolServer) == "" {
		errs = append(errs, errors.New("TOOL_SERVER is required"))
	}
	return errors.Join(errs...)
}

// HTTPListenAddr resolves where the tool server listens. A non-empty flag
// wins; otherwise HTTPAddr is used when ServeHTTP is set. ok is false for stdio.
func (c *Config) HTTPListenAddr(flag string) (addr string, ok bool) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return flag, true
	}
	if c.ServeHTTP && strings.TrimSpace(c.HTTPAddr) != "" {
		return c.HTTPAddr, true
	}
	return "", false
}

func findEnvFile(paths []string) string {
	for _, dir := range paths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, EnvFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
