package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal config — only the port; everything else defaulted.
	p := writeConfig(t, `server:
  http_port: 9000
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9000 {
		t.Errorf("http_port: got %d, want 9000", cfg.Server.HTTPPort)
	}
	if cfg.Server.Pins.TTL != DefaultTTL {
		t.Errorf("pins.ttl: got %v, want %v", cfg.Server.Pins.TTL, DefaultTTL)
	}
	if cfg.Server.Pins.ReapInterval != DefaultReapInterval {
		t.Errorf("pins.reap_interval: got %v, want %v", cfg.Server.Pins.ReapInterval, DefaultReapInterval)
	}
	if cfg.Server.Pins.KeyLength != DefaultKeyLength {
		t.Errorf("pins.key_length: got %d, want %d", cfg.Server.Pins.KeyLength, DefaultKeyLength)
	}
	if cfg.Server.Pins.MaxPayloadBytes != DefaultMaxPayloadBytes {
		t.Errorf("pins.max_payload_bytes: got %d, want %d", cfg.Server.Pins.MaxPayloadBytes, DefaultMaxPayloadBytes)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9090
  pins:
    ttl: 5m
    reap_interval: 30s
    key_length: 6
    alphabet: "0123456789"
    max_payload_bytes: 1024
    max_generate_retries: 5
    shards: 32
  stats:
    interval: 2s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Pins.TTL != 5*time.Minute {
		t.Errorf("pins.ttl: got %v, want 5m", cfg.Server.Pins.TTL)
	}
	if cfg.Server.Pins.KeyLength != 6 {
		t.Errorf("pins.key_length: got %d, want 6", cfg.Server.Pins.KeyLength)
	}
	if cfg.Server.Pins.Alphabet != "0123456789" {
		t.Errorf("pins.alphabet: got %q, want digits", cfg.Server.Pins.Alphabet)
	}
	if cfg.Server.Pins.Shards != 32 {
		t.Errorf("pins.shards: got %d, want 32", cfg.Server.Pins.Shards)
	}
	if cfg.Server.Stats.Interval != 2*time.Second {
		t.Errorf("stats.interval: got %v, want 2s", cfg.Server.Stats.Interval)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("Default config does not validate: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
}

func TestLoad_BadPort(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 70000
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for out-of-range port, got nil")
	}
}

func TestLoad_NegativeTTL(t *testing.T) {
	p := writeConfig(t, `server:
  pins:
    ttl: -1m
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for negative ttl, got nil")
	}
}

func TestLoad_BadKeyLength(t *testing.T) {
	p := writeConfig(t, `server:
  pins:
    key_length: 0
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for zero key length, got nil")
	}
}

func TestReloadChanges_Hot(t *testing.T) {
	old := Default()
	cur := Default()
	cur.Server.Pins.TTL = 5 * time.Minute
	cur.Server.Pins.MaxPayloadBytes = 1024

	hot, restart := reloadChanges(old, cur)
	if len(hot) != 2 || hot[0] != "pins.ttl" || hot[1] != "pins.max_payload_bytes" {
		t.Errorf("hot: got %v, want [pins.ttl pins.max_payload_bytes]", hot)
	}
	if len(restart) != 0 {
		t.Errorf("restart: got %v, want none", restart)
	}
}

func TestReloadChanges_RestartOnly(t *testing.T) {
	old := Default()
	cur := Default()
	cur.Server.HTTPPort = 9000
	cur.Server.Pins.KeyLength = 6
	cur.Server.Pins.Alphabet = "0123456789"

	hot, restart := reloadChanges(old, cur)
	if len(hot) != 0 {
		t.Errorf("hot: got %v, want none", hot)
	}
	want := []string{"http_port", "pins.key_length", "pins.alphabet"}
	if len(restart) != len(want) {
		t.Fatalf("restart: got %v, want %v", restart, want)
	}
	for i := range want {
		if restart[i] != want[i] {
			t.Errorf("restart[%d]: got %q, want %q", i, restart[i], want[i])
		}
	}
}

func TestReloadChanges_NoChange(t *testing.T) {
	hot, restart := reloadChanges(Default(), Default())
	if len(hot) != 0 || len(restart) != 0 {
		t.Errorf("identical configs: got hot=%v restart=%v, want none", hot, restart)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
