package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("expected default port 4600, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.TopK != 3 {
		t.Errorf("expected default top-k 3, got %d", cfg.Pipeline.TopK)
	}
	if cfg.Pipeline.DefaultMetric != "euclidean" {
		t.Errorf("expected default metric euclidean, got %q", cfg.Pipeline.DefaultMetric)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("expected non-empty data dir")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QUERYSCOPE_SERVER_PORT", "9999")
	t.Setenv("QUERYSCOPE_DEFAULT_METRIC", "cosine")
	t.Setenv("QUERYSCOPE_DATA_DIR", "/tmp/qs-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port override 9999, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.DefaultMetric != "cosine" {
		t.Errorf("expected metric override cosine, got %q", cfg.Pipeline.DefaultMetric)
	}
	if cfg.Storage.DataDir != "/tmp/qs-test" {
		t.Errorf("expected data dir override, got %q", cfg.Storage.DataDir)
	}
}

func TestEnvOverrideInvalidInt(t *testing.T) {
	t.Setenv("QUERYSCOPE_TOP_K", "three")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-integer QUERYSCOPE_TOP_K")
	}
}

func TestShowAllCoversEveryKey(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	infos := ShowAll(cfg)
	if len(infos) != len(specs) {
		t.Fatalf("ShowAll returned %d keys, expected %d", len(infos), len(specs))
	}
	for _, ki := range infos {
		if ki.Key == "" || ki.EnvVar == "" {
			t.Errorf("incomplete key info: %+v", ki)
		}
	}
}
