// Package config holds runtime configuration: compiled-in defaults
// overridden by QUERYSCOPE_* environment variables.
package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir   string
	OutputDir string
}

type PipelineConfig struct {
	// Observations is how many synthetic rows the seed step generates.
	Observations int
	// Seed drives the synthetic data RNG; fixed so runs are reproducible.
	Seed int64
	// TopK is the default recommendation count.
	TopK int
	// DefaultMetric is used when a caller does not name one.
	DefaultMetric string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Storage: StorageConfig{
			DataDir:   dataDir,
			OutputDir: filepath.Join(dataDir, "outputs"),
		},
		Pipeline: PipelineConfig{
			Observations:  333,
			Seed:          2007,
			TopK:          3,
			DefaultMetric: "euclidean",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "queryscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".queryscope"
	}
	return filepath.Join(home, ".local", "share", "queryscope")
}

// Load returns the configuration: defaults plus environment overrides.
func Load() (Config, error) {
	cfg := defaults()
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
