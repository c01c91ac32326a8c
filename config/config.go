// Package config loads runtime configuration from an optional YAML file
// with environment-variable overrides. API keys are read from the
// environment only and never from the file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the front ends need to assemble a workflow.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Model struct {
		BaseURL     string  `mapstructure:"base_url"`
		Name        string  `mapstructure:"name"`
		Temperature float64 `mapstructure:"temperature"`
		TimeoutSecs int     `mapstructure:"timeout_seconds"`
	} `mapstructure:"model"`

	Search struct {
		Provider   string `mapstructure:"provider"` // tavily or duckduckgo
		Depth      string `mapstructure:"depth"`
		MaxResults int    `mapstructure:"max_results"`
	} `mapstructure:"search"`

	Research struct {
		MaxToolRounds int  `mapstructure:"max_tool_rounds"`
		FetchPages    bool `mapstructure:"fetch_pages"`
	} `mapstructure:"research"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// Load reads the config file at path (optional; empty means defaults only)
// and applies COMPANYSCOUT_* environment overrides, e.g.
// COMPANYSCOUT_MODEL_NAME or COMPANYSCOUT_SERVER_ADDR.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("model.base_url", "https://api.openai.com/v1")
	v.SetDefault("model.name", "gpt-4.1-nano")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.timeout_seconds", 60)
	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.depth", "basic")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("research.max_tool_rounds", 6)
	v.SetDefault("research.fetch_pages", false)
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("COMPANYSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ModelAPIKey returns the LLM API key from the environment.
func ModelAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// TavilyAPIKey returns the Tavily API key from the environment.
func TavilyAPIKey() string {
	return os.Getenv("TAVILY_API_KEY")
}
