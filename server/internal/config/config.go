package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultGRPCPort       = 50051
	DefaultHTTPPort       = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultContainerTTL   = 10 * time.Minute
	DefaultStoreDir       = "/etc/slider/security"
	DefaultStoreMaxBytes  = 16 << 20
	DefaultStreamInterval = 5 * time.Second
)

// Config holds the server-side configuration parsed from the `server:` section
// of the config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// GRPCPort is the port the ClusterStatus gRPC service listens on (default 50051).
	GRPCPort int `yaml:"grpc_port"`

	// HTTPPort is the port the REST API, metrics and WebSocket stream listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of debug | info | warn | error. Applied again on reload.
	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`

	// Auth configures how the server authenticates incoming gRPC clients.
	Auth AuthConfig `yaml:"auth"`

	// Containers controls live container retention.
	Containers ContainersConfig `yaml:"containers"`

	// SecurityStore locates the credential stores served to clients.
	SecurityStore SecurityStoreConfig `yaml:"security_store"`

	// Stream controls the WebSocket live container feed.
	Stream StreamConfig `yaml:"stream"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the gRPC metadata key to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// ContainersConfig controls live container retention.
type ContainersConfig struct {
	// TTL is how long a container stays live after its last update. A container
	// that is not refreshed within TTL is dropped from the live set.
	// Default: 10m.
	TTL time.Duration `yaml:"ttl"`
}

// SecurityStoreConfig locates the keystore and truststore files.
type SecurityStoreConfig struct {
	// Dir holds keystore.p12 and truststore.p12.
	Dir string `yaml:"dir"`

	// MaxBytes bounds how much of a store is read into memory per request.
	// 0 disables the bound. Default: 16 MiB.
	MaxBytes int64 `yaml:"max_bytes"`
}

// StreamConfig controls the WebSocket live container feed.
type StreamConfig struct {
	// Interval between broadcasts. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort:  DefaultGRPCPort,
			HTTPPort:  DefaultHTTPPort,
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
			Containers: ContainersConfig{
				TTL: DefaultContainerTTL,
			},
			SecurityStore: SecurityStoreConfig{
				Dir:      DefaultStoreDir,
				MaxBytes: DefaultStoreMaxBytes,
			},
			Stream: StreamConfig{
				Interval: DefaultStreamInterval,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.GRPCPort <= 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", s.GRPCPort)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.GRPCPort == s.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ (both %d)", s.GRPCPort)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}
	switch s.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("server.log_format %q unknown: want json|text", s.LogFormat)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	if s.Containers.TTL <= 0 {
		return fmt.Errorf("server.containers.ttl must be positive")
	}
	if s.SecurityStore.Dir == "" {
		return fmt.Errorf("server.security_store.dir is required")
	}
	if s.SecurityStore.MaxBytes < 0 {
		return fmt.Errorf("server.security_store.max_bytes must not be negative")
	}
	if s.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	return nil
}
