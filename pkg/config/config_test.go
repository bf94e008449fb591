package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
logger:
  level: info
  format: console
  output: stdout
xrpl:
  endpoint: http://s2.ripple.com:51234
  transport: http
  timeout: 20s
  seed_width: 10
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.XRPL.Endpoint != "http://s2.ripple.com:51234" {
		t.Fatalf("unexpected endpoint %s", c.XRPL.Endpoint)
	}
	if c.XRPL.Timeout != 20*time.Second {
		t.Fatalf("unexpected timeout %v", c.XRPL.Timeout)
	}
	if c.XRPL.SeedWidth != 10 {
		t.Fatalf("unexpected seed width %d", c.XRPL.SeedWidth)
	}
}

func TestLoadRejectsBadTransport(t *testing.T) {
	bad := `
environment: test
xrpl:
  endpoint: http://localhost:51234
  transport: grpc
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("XRPL_ENDPOINT", "http://localhost:5005")
	c, err := LoadWithEnv(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.XRPL.Endpoint != "http://localhost:5005" {
		t.Fatalf("env override not applied, got %s", c.XRPL.Endpoint)
	}
}
