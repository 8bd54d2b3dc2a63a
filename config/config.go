// Package config loads owlgo configuration from TOML files and
// environment variables via Viper.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/dice-group/owlgo/errors"
)

// Config holds every tunable of the retrieval engine.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Reasoner  ReasonerConfig  `mapstructure:"reasoner"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig configures the SQLite backing store.
type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string `mapstructure:"path"`
}

// ReasonerConfig configures the fact-store evaluator.
type ReasonerConfig struct {
	// Cache toggles per-source memoization.
	Cache bool `mapstructure:"cache"`
	// Direct restricts named-class lookups to directly asserted members.
	Direct bool `mapstructure:"direct"`
	// Timeout bounds a single retrieval; zero means unbounded.
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig configures the neural retrieval backend.
type EmbeddingConfig struct {
	// Gamma is the prediction score threshold in (0, 1].
	Gamma float64 `mapstructure:"gamma"`
	// Dimension is the embedding vector dimensionality.
	Dimension int `mapstructure:"dimension"`
}

// LogConfig configures logger output.
type LogConfig struct {
	// JSON switches from console to JSON output.
	JSON bool `mapstructure:"json"`
}

// SetDefaults installs the default values on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "owlgo.db")
	v.SetDefault("reasoner.cache", true)
	v.SetDefault("reasoner.direct", false)
	v.SetDefault("reasoner.timeout", time.Duration(0))
	v.SetDefault("embedding.gamma", 0.25)
	v.SetDefault("embedding.dimension", 128)
	v.SetDefault("log.json", false)
}

// Load reads configuration from the given file, falling back to defaults
// and OWLGO_* environment variables. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OWLGO")
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals configuration from a prepared Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Embedding.Gamma <= 0 || c.Embedding.Gamma > 1 {
		return errors.Newf("embedding.gamma %v outside (0, 1]", c.Embedding.Gamma)
	}
	if c.Embedding.Dimension <= 0 {
		return errors.Newf("embedding.dimension %d must be positive", c.Embedding.Dimension)
	}
	if c.Reasoner.Timeout < 0 {
		return errors.Newf("reasoner.timeout %v must not be negative", c.Reasoner.Timeout)
	}
	return nil
}
