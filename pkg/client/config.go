package client

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the client configuration.
const (
	DefaultEndpoint   = "localhost:50051"
	DefaultTimeout    = 10 * time.Second
	DefaultBufferSize = 256
)

// File is the top-level layout of a client config file.
type File struct {
	Client Config `yaml:"client"`
}

// Config holds everything needed to reach slider-server.
type Config struct {
	// Endpoint is the gRPC address of slider-server (host:port).
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds each call.
	Timeout time.Duration `yaml:"timeout"`

	// BufferSize is the Reporter queue depth.
	BufferSize int `yaml:"buffer_size"`

	// Auth configures how the client authenticates to the server.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig specifies the authentication mode used towards the server.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | none.
	Mode string `yaml:"mode"`

	// mTLS fields: used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// API key fields: used when Mode == "apikey".
	// Header is the gRPC metadata key to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key value resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// LoadConfig reads the `client:` section of the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("client config: read %q: %w", path, err)
	}

	f := File{Client: Defaults()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("client config: parse yaml: %w", err)
	}
	if err := f.Client.Validate(); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}
	return &f.Client, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		Timeout:    DefaultTimeout,
		BufferSize: DefaultBufferSize,
	}
}

// Validate checks structural constraints on c.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("client.endpoint is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("client.buffer_size must be positive")
	}
	switch c.Auth.Mode {
	case "", "none":
	case "apikey":
		if c.Auth.KeyEnv == "" {
			return fmt.Errorf("client.auth.key_env is required for apikey mode")
		}
	case "mtls":
		if c.Auth.CertFile == "" || c.Auth.KeyFile == "" {
			return fmt.Errorf("client.auth.cert_file and key_file are required for mtls mode")
		}
	default:
		return fmt.Errorf("client.auth.mode %q unknown: want mtls|apikey|none", c.Auth.Mode)
	}
	return nil
}
