// Package config loads the slider-server configuration from the `server:`
// section of config.yaml.
//
// Config fields:
//   - GRPCPort                 ClusterStatus gRPC service port (default 50051)
//   - HTTPPort                 REST API, /metrics and /ws/containers port (default 8080)
//   - LogLevel, LogFormat      slog level and handler (default info, json)
//   - Auth.Mode                "apikey" or "none"
//   - Auth.KeyEnv              environment variable holding the expected API key
//   - Auth.Header              gRPC metadata key (default "x-api-key")
//   - Containers.TTL           how long a container stays live without updates (default 10m)
//   - SecurityStore.Dir        directory holding keystore.p12 and truststore.p12
//   - SecurityStore.MaxBytes   read bound for a credential store (default 16 MiB, 0 = none)
//   - Stream.Interval          WebSocket broadcast period (default 5s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads the file on change via fsnotify.
package config
