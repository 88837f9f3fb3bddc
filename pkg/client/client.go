package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/sliderstack/sliderstack/pkg/marshal"
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

// Client talks to the ClusterStatus service and hands back domain values.
// Every response passes through the inbound marshal conversions.
type Client struct {
	conn    *grpc.ClientConn
	rpc     *wire.ClusterStatusClient
	timeout time.Duration
}

// Dial opens a connection to cfg.Endpoint with auth configured from cfg.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := dialOptions(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.DialContext(ctx, cfg.Endpoint, opts...) //nolint:staticcheck // deprecated in 1.63 but DialContext is used for compat
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", cfg.Endpoint, err)
	}
	return newClient(conn, cfg.Timeout), nil
}

func newClient(conn *grpc.ClientConn, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{conn: conn, rpc: wire.NewClusterStatusClient(conn), timeout: timeout}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Liveness returns the application liveness.
func (c *Client) Liveness(ctx context.Context) (*types.LivenessStatus, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.GetLiveness(ctx, &wire.Empty{})
	if err != nil {
		return nil, fmt.Errorf("client: get liveness: %w", err)
	}
	return marshal.UnmarshalLiveness(w), nil
}

// Components lists every component.
func (c *Client) Components(ctx context.Context) ([]types.ComponentStatus, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.ListComponents(ctx, &wire.Empty{})
	if err != nil {
		return nil, fmt.Errorf("client: list components: %w", err)
	}
	return marshal.UnmarshalComponents(w), nil
}

// Component returns the named component.
func (c *Client) Component(ctx context.Context, name string) (*types.ComponentStatus, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.GetComponent(ctx, &wire.GetComponentRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("client: get component %q: %w", name, err)
	}
	return marshal.UnmarshalComponent(w), nil
}

// LiveContainers lists the live containers.
func (c *Client) LiveContainers(ctx context.Context) ([]types.ContainerStatus, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.GetLiveContainers(ctx, &wire.Empty{})
	if err != nil {
		return nil, fmt.Errorf("client: get live containers: %w", err)
	}
	return marshal.UnmarshalLiveContainers(w), nil
}

// CertificateStore fetches the raw bytes of the keystore or truststore.
func (c *Client) CertificateStore(ctx context.Context, typ string) ([]byte, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.GetCertificateStore(ctx, &wire.GetCertificateStoreRequest{Type: typ})
	if err != nil {
		return nil, fmt.Errorf("client: get certificate store %q: %w", typ, err)
	}
	return marshal.UnmarshalCertificateStore(w), nil
}

// ModelJSON returns the named model document, or one of its sections when
// section is non-empty, as raw JSON.
func (c *Client) ModelJSON(ctx context.Context, name, section string) (string, error) {
	w, err := c.model(ctx, name, section)
	if err != nil {
		return "", err
	}
	return marshal.UnmarshalJSON(w), nil
}

// Model returns the named model decoded as an aggregate configuration.
func (c *Client) Model(ctx context.Context, name string) (*types.AggregateConf, error) {
	w, err := c.model(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return marshal.UnmarshalAggregateConf(w)
}

// ModelSection returns one section of the named model with option lookups.
func (c *Client) ModelSection(ctx context.Context, name, section string) (*types.ConfTreeOperations, error) {
	w, err := c.model(ctx, name, section)
	if err != nil {
		return nil, err
	}
	return marshal.UnmarshalConfTreeOperations(w)
}

func (c *Client) model(ctx context.Context, name, section string) (*wire.WrappedJSON, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	w, err := c.rpc.GetModel(ctx, &wire.GetModelRequest{Name: name, Section: section})
	if err != nil {
		return nil, fmt.Errorf("client: get model %q: %w", name, err)
	}
	return w, nil
}

// UpdateLiveness publishes the application liveness.
func (c *Client) UpdateLiveness(ctx context.Context, l *types.LivenessStatus) error {
	ctx, cancel := c.call(ctx)
	defer cancel()
	if _, err := c.rpc.UpdateLiveness(ctx, marshal.MarshalLiveness(l)); err != nil {
		return fmt.Errorf("client: update liveness: %w", err)
	}
	return nil
}

// UpdateComponent publishes one component's status.
func (c *Client) UpdateComponent(ctx context.Context, comp *types.ComponentStatus) error {
	ctx, cancel := c.call(ctx)
	defer cancel()
	if _, err := c.rpc.UpdateComponent(ctx, marshal.MarshalComponent(comp)); err != nil {
		return fmt.Errorf("client: update component %q: %w", comp.Name, err)
	}
	return nil
}

// UpdateContainer publishes one container's status.
func (c *Client) UpdateContainer(ctx context.Context, ctr *types.ContainerStatus) error {
	ctx, cancel := c.call(ctx)
	defer cancel()
	if _, err := c.rpc.UpdateContainer(ctx, marshal.MarshalContainer(ctr)); err != nil {
		return fmt.Errorf("client: update container %q: %w", ctr.ContainerID, err)
	}
	return nil
}

// UpdateModel stores doc as the named model.
func (c *Client) UpdateModel(ctx context.Context, name, doc string) error {
	ctx, cancel := c.call(ctx)
	defer cancel()
	if _, err := c.rpc.UpdateModel(ctx, &wire.UpdateModelRequest{Name: name, JSON: doc}); err != nil {
		return fmt.Errorf("client: update model %q: %w", name, err)
	}
	return nil
}

// dialOptions builds grpc.DialOption slice based on the auth config.
func dialOptions(cfg Config) ([]grpc.DialOption, error) {
	opts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wire.Codec{})),
	}

	switch cfg.Auth.Mode {
	case "mtls":
		creds, err := buildMTLSCreds(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("client: build mtls creds: %w", err)
		}
		return append(opts, grpc.WithTransportCredentials(creds)), nil

	case "apikey":
		return append(opts,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.Auth.EffectiveHeader(), cfg.Auth.Key())),
		), nil

	default: // "none" or empty: insecure for local dev
		return append(opts, grpc.WithTransportCredentials(insecure.NewCredentials())), nil
	}
}

// apiKeyInterceptor attaches the API key to every outgoing call.
func apiKeyInterceptor(header, key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if key != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, header, key)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// buildMTLSCreds loads client certificate and optional CA from the auth config.
func buildMTLSCreds(auth AuthConfig) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(auth.CertFile, auth.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client cert: %w", err)
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
	}

	if auth.CAFile != "" {
		caPEM, err := os.ReadFile(auth.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no valid certs in ca file %q", auth.CAFile)
		}
		tlsCfg.RootCAs = pool
	}

	return credentials.NewTLS(tlsCfg), nil
}
