// Package client is the Go client for slider-server's ClusterStatus service.
//
// Dial(ctx, cfg) connects with the slider-wire codec and the configured auth
// mode (none, apikey or mtls). Client methods return domain values from
// package types; the wire envelopes never leak past this package.
//
// Reporter buffers container updates from a cluster node and pushes them
// with reconnect and exponential backoff, discarding updates the server
// rejects as invalid or unauthenticated.
//
// LoadConfig reads the `client:` section of a YAML config file.
package client
