package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
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
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Server
	if s.GRPCPort != DefaultGRPCPort {
		t.Errorf("grpc_port: got %d, want %d", s.GRPCPort, DefaultGRPCPort)
	}
	if s.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", s.HTTPPort, DefaultHTTPPort)
	}
	if s.LogLevel != DefaultLogLevel {
		t.Errorf("log_level: got %q, want %q", s.LogLevel, DefaultLogLevel)
	}
	if s.LogFormat != DefaultLogFormat {
		t.Errorf("log_format: got %q, want %q", s.LogFormat, DefaultLogFormat)
	}
	if s.Containers.TTL != DefaultContainerTTL {
		t.Errorf("containers.ttl: got %v, want %v", s.Containers.TTL, DefaultContainerTTL)
	}
	if s.SecurityStore.Dir != DefaultStoreDir {
		t.Errorf("security_store.dir: got %q, want %q", s.SecurityStore.Dir, DefaultStoreDir)
	}
	if s.SecurityStore.MaxBytes != DefaultStoreMaxBytes {
		t.Errorf("security_store.max_bytes: got %d, want %d", s.SecurityStore.MaxBytes, DefaultStoreMaxBytes)
	}
	if s.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want %v", s.Stream.Interval, DefaultStreamInterval)
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  grpc_port: 9090
  http_port: 9091
  log_level: debug
  log_format: text
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-slider-key
  containers:
    ttl: 2m
  security_store:
    dir: /var/lib/slider/certs
    max_bytes: 0
  stream:
    interval: 1s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Server
	if s.GRPCPort != 9090 {
		t.Errorf("grpc_port: got %d, want 9090", s.GRPCPort)
	}
	if s.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", s.HTTPPort)
	}
	if s.LogLevel != "debug" || s.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want debug/text", s.LogLevel, s.LogFormat)
	}
	if s.Auth.Mode != "apikey" {
		t.Errorf("auth.mode: got %q, want apikey", s.Auth.Mode)
	}
	if s.Auth.EffectiveHeader() != "x-slider-key" {
		t.Errorf("auth.header: got %q, want x-slider-key", s.Auth.EffectiveHeader())
	}
	if s.Containers.TTL != 2*time.Minute {
		t.Errorf("containers.ttl: got %v, want 2m", s.Containers.TTL)
	}
	if s.SecurityStore.Dir != "/var/lib/slider/certs" {
		t.Errorf("security_store.dir: got %q", s.SecurityStore.Dir)
	}
	if s.SecurityStore.MaxBytes != 0 {
		t.Errorf("security_store.max_bytes: got %d, want 0", s.SecurityStore.MaxBytes)
	}
	if s.Stream.Interval != time.Second {
		t.Errorf("stream.interval: got %v, want 1s", s.Stream.Interval)
	}
}

func TestAuthConfig_DefaultHeader(t *testing.T) {
	a := AuthConfig{}
	if got := a.EffectiveHeader(); got != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", got)
	}
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("SLIDER_TEST_KEY", "secret-value")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: SLIDER_TEST_KEY
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Server.Auth.Key(); got != "secret-value" {
		t.Errorf("Key(): got %q, want secret-value", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth\n", "server.auth.mode"},
		{"port out of range", "server:\n  grpc_port: 70000\n", "server.grpc_port"},
		{"same ports", "server:\n  grpc_port: 9000\n  http_port: 9000\n", "must differ"},
		{"bad log level", "server:\n  log_level: loud\n", "server.log_level"},
		{"bad log format", "server:\n  log_format: xml\n", "server.log_format"},
		{"zero ttl", "server:\n  containers:\n    ttl: 0s\n", "server.containers.ttl"},
		{"negative max bytes", "server:\n  security_store:\n    max_bytes: -1\n", "max_bytes"},
		{"empty store dir", "server:\n  security_store:\n    dir: \"\"\n", "security_store.dir"},
		{"zero interval", "server:\n  stream:\n    interval: 0s\n", "server.stream.interval"},
		{"bad yaml", "server: [\n", "parse yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	p := writeConfig(t, "server:\n  log_level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(c *Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(p, []byte("server:\n  log_level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// A write can surface as truncate then write, so earlier reloads may
	// still carry the old contents.
	deadline := time.After(3 * time.Second)
	for seen := false; !seen; {
		select {
		case c := <-reloaded:
			seen = c.Server.LogLevel == "debug"
		case <-deadline:
			t.Fatal("timeout waiting for reload with log_level debug")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
