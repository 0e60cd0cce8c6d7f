package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()
	if cfg.StoreDriver != DriverSQLite {
		t.Errorf("StoreDriver = %q, want sqlite", cfg.StoreDriver)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eduportal.yaml")
	data := `location: https://staging.learn.example.org
store_driver: bolt
store_path: /tmp/edu.bolt
timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := DefaultClientConfig()
	want.Location = "https://staging.learn.example.org"
	want.StoreDriver = DriverBolt
	want.StorePath = "/tmp/edu.bolt"
	want.Timeout = 5 * time.Second
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadFile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	os.WriteFile(path, []byte("timeout: [not a duration"), 0o600)

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLocation:    "file:///home/me/index.html",
		EnvAPIURL:      "http://10.0.0.5:5001",
		EnvStoreDriver: "MEMORY",
		EnvTimeout:     "2s",
		EnvSessionTTL:  "1h",
		EnvLogLevel:    "debug",
	}
	cfg := DefaultClientConfig()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Location != "file:///home/me/index.html" {
		t.Errorf("Location = %q", cfg.Location)
	}
	if cfg.APIBaseURL != "http://10.0.0.5:5001" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Errorf("StoreDriver = %q, want memory", cfg.StoreDriver)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestApplyEnv_BadDuration(t *testing.T) {
	cfg := DefaultClientConfig()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvTimeout {
			return "soon"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), EnvTimeout) {
		t.Fatalf("expected %s error, got %v", EnvTimeout, err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("EDUPORTAL_TEST_ONLY_VAR=from-file\n"), 0o600)
	t.Cleanup(func() { os.Unsetenv("EDUPORTAL_TEST_ONLY_VAR") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("EDUPORTAL_TEST_ONLY_VAR"); got != "from-file" {
		t.Errorf("env var = %q, want from-file", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
	}{
		{"bad driver", func(c *ClientConfig) { c.StoreDriver = "redis" }},
		{"no path", func(c *ClientConfig) { c.StorePath = "" }},
		{"no location", func(c *ClientConfig) { c.Location = "" }},
		{"zero timeout", func(c *ClientConfig) { c.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultClientConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	mem := DefaultClientConfig()
	mem.StoreDriver = DriverMemory
	mem.StorePath = ""
	if err := mem.Validate(); err != nil {
		t.Errorf("memory driver without path should be valid: %v", err)
	}
}
