// Package config loads modcraftd's configuration from a TOML file with
// environment-variable overrides, following the precedence
// env > file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type (
	// Config holds all configuration for the run engine process.
	Config struct {
		Mongo      MongoConfig      `toml:"mongo"`
		Redis      RedisConfig      `toml:"redis"`
		Executor   ExecutorConfig   `toml:"executor"`
		EventBus   EventBusConfig   `toml:"event_bus"`
		Orchestrator OrchestratorConfig `toml:"orchestrator"`
		TextureGen TextureGenConfig `toml:"texture_gen"`
		Builder    BuilderConfig    `toml:"builder"`
		Log        LogConfig        `toml:"log"`
	}

	// MongoConfig configures the Spec Store's Mongo-backed persistence.
	MongoConfig struct {
		URI      string `toml:"uri"`
		Database string `toml:"database"`
	}

	// RedisConfig configures the Redis-backed event bus.
	RedisConfig struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	}

	// ExecutorConfig configures DAG scheduling.
	ExecutorConfig struct {
		FanOut            int           `toml:"fan_out"`
		DefaultTimeout    time.Duration `toml:"default_timeout"`
		TextureTimeout    time.Duration `toml:"texture_timeout"`
		BuildTimeout      time.Duration `toml:"build_timeout"`
		CancelGracePeriod time.Duration `toml:"cancel_grace_period"`
	}

	// EventBusConfig configures the per-run event log.
	EventBusConfig struct {
		RetentionGracePeriod time.Duration `toml:"retention_grace_period"`
		SubscriberBufferSize int           `toml:"subscriber_buffer_size"`
	}

	// OrchestratorConfig configures the Anthropic-backed Orchestrator
	// adapter.
	OrchestratorConfig struct {
		APIKey string `toml:"api_key"`
		Model  string `toml:"model"`
	}

	// TextureGenConfig configures the Bedrock-backed Texture Generator
	// adapter.
	TextureGenConfig struct {
		Region          string  `toml:"region"`
		ModelID         string  `toml:"model_id"`
		RequestsPerSec  float64 `toml:"requests_per_second"`
	}

	// BuilderConfig configures the external build command.
	BuilderConfig struct {
		Command string   `toml:"command"`
		Args    []string `toml:"args"`
	}

	// LogConfig configures logging verbosity and format.
	LogConfig struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	}
)

// Load builds a Config by reading defaults, then a TOML file (optional),
// then environment variables (which always win).
//
// Config file search order (first found wins):
//  1. The explicit configPath parameter (from --config)
//  2. MODCRAFT_CONFIG environment variable
//  3. ./modcraft.toml in the current directory
//
// All fields are optional in the config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "modcraft",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Executor: ExecutorConfig{
			FanOut:            4,
			DefaultTimeout:    30 * time.Second,
			TextureTimeout:    90 * time.Second,
			BuildTimeout:      10 * time.Minute,
			CancelGracePeriod: 10 * time.Second,
		},
		EventBus: EventBusConfig{
			RetentionGracePeriod: time.Hour,
			SubscriberBufferSize: 256,
		},
		TextureGen: TextureGenConfig{
			Region:         "us-east-1",
			ModelID:        "amazon.titan-image-generator-v2:0",
			RequestsPerSec: 2,
		},
		Builder: BuilderConfig{
			Command: "./gradlew",
			Args:    []string{"build"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("MODCRAFT_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("modcraft.toml"); err == nil {
		return "modcraft.toml"
	}
	return ""
}

// applyEnv overlays environment variables on top of existing config values.
// An env var only takes effect when it is set and non-empty.
func (c *Config) applyEnv() {
	envOverride("MODCRAFT_MONGO_URI", &c.Mongo.URI)
	envOverride("MODCRAFT_MONGO_DATABASE", &c.Mongo.Database)
	envOverride("MODCRAFT_REDIS_ADDR", &c.Redis.Addr)
	envOverride("MODCRAFT_REDIS_PASSWORD", &c.Redis.Password)
	envOverride("MODCRAFT_ORCHESTRATOR_API_KEY", &c.Orchestrator.APIKey)
	envOverride("MODCRAFT_ORCHESTRATOR_MODEL", &c.Orchestrator.Model)
	envOverride("MODCRAFT_TEXTURE_REGION", &c.TextureGen.Region)
	envOverride("MODCRAFT_TEXTURE_MODEL_ID", &c.TextureGen.ModelID)
	envOverride("MODCRAFT_LOG_LEVEL", &c.Log.Level)
	envOverride("MODCRAFT_LOG_FORMAT", &c.Log.Format)

	if v := os.Getenv("MODCRAFT_EXECUTOR_FAN_OUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Executor.FanOut = n
		}
	}
}

func envOverride(key string, dest *string) {
	if v := os.Getenv(key); v != "" {
		*dest = v
	}
}
