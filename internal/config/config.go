package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Player settings
	Player PlayerConfig `yaml:"player"`

	// YouTube Data API settings
	YouTube YouTubeConfig `yaml:"youtube"`
}

type StorageConfig struct {
	// Backend selects the persistence backend: "file" or "redis"
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Redis   struct {
		Addr      string `yaml:"addr"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"redis"`
}

type PlayerConfig struct {
	// ViewportWidth is the assumed viewport width in pixels, used to derive
	// the 16:9 player height before capping
	ViewportWidth int `yaml:"viewport_width"`
	MaxHeight     int `yaml:"max_height"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(os.Getenv("HOME"), ".favorepeat", "store.json"),
		},
		Player: PlayerConfig{
			ViewportWidth: 448,
			MaxHeight:     252,
		},
	}
	cfg.Storage.Redis.Addr = "localhost:6379"
	cfg.Storage.Redis.KeyPrefix = "favorepeat:"
	return cfg
}

func (c *Config) applyEnv() {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
}

func findConfigFile() string {
	candidates := []string{
		"./favorepeat.yaml",
		"./favorepeat.yml",
		filepath.Join(os.Getenv("HOME"), ".favorepeat", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
