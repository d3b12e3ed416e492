package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "QUERYSCOPE_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.data_dir", typ: kString, env: "QUERYSCOPE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.output_dir", typ: kString, env: "QUERYSCOPE_OUTPUT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.OutputDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.OutputDir },
	},
	{
		key: "pipeline.observations", typ: kInt, env: "QUERYSCOPE_OBSERVATIONS",
		apply:   func(cfg *Config, v any) { cfg.Pipeline.Observations = v.(int) },
		extract: func(cfg Config) any { return cfg.Pipeline.Observations },
	},
	{
		key: "pipeline.seed", typ: kInt, env: "QUERYSCOPE_SEED",
		apply:   func(cfg *Config, v any) { cfg.Pipeline.Seed = int64(v.(int)) },
		extract: func(cfg Config) any { return cfg.Pipeline.Seed },
	},
	{
		key: "pipeline.top_k", typ: kInt, env: "QUERYSCOPE_TOP_K",
		apply:   func(cfg *Config, v any) { cfg.Pipeline.TopK = v.(int) },
		extract: func(cfg Config) any { return cfg.Pipeline.TopK },
	},
	{
		key: "pipeline.default_metric", typ: kString, env: "QUERYSCOPE_DEFAULT_METRIC",
		apply:   func(cfg *Config, v any) { cfg.Pipeline.DefaultMetric = v.(string) },
		extract: func(cfg Config) any { return cfg.Pipeline.DefaultMetric },
	},
	{
		key: "log.level", typ: kString, env: "QUERYSCOPE_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyEnvOverrides(cfg *Config) error {
	for _, s := range specs {
		raw, ok := os.LookupEnv(s.env)
		if !ok || raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			i, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid integer in %s: %w", s.env, err)
			}
			s.apply(cfg, i)
		}
	}
	return nil
}

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll returns all config key/value pairs from the current config.
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  fmt.Sprintf("%v", s.extract(cfg)),
		})
	}
	return result
}
