package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/sliderstack/sliderstack/pkg/wire"
	"github.com/sliderstack/sliderstack/server/internal/api"
	"github.com/sliderstack/sliderstack/server/internal/auth"
	"github.com/sliderstack/sliderstack/server/internal/config"
	"github.com/sliderstack/sliderstack/server/internal/logging"
	"github.com/sliderstack/sliderstack/server/internal/metrics"
	"github.com/sliderstack/sliderstack/server/internal/service"
	"github.com/sliderstack/sliderstack/server/internal/store"
	"github.com/sliderstack/sliderstack/server/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		slog.Error("slider-server: fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	sc := cfg.Server
	if err := logging.Configure(sc.LogLevel, sc.LogFormat); err != nil {
		return err
	}
	slog.Info("slider-server starting",
		"config", configPath,
		"grpc_port", sc.GRPCPort,
		"http_port", sc.HTTPPort,
		"auth_mode", sc.Auth.Mode,
		"container_ttl", sc.Containers.TTL,
		"security_store", sc.SecurityStore.Dir,
	)

	st := store.New(sc.Containers.TTL)
	go st.Run(ctx)

	svc := service.New(st, sc.SecurityStore.Dir, sc.SecurityStore.MaxBytes)
	go watchConfig(ctx, configPath, svc)

	hub := ws.New(st, sc.Stream.Interval)
	go hub.Run(ctx)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", sc.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc :%d: %w", sc.GRPCPort, err)
	}
	grpcSrv := newGRPCServer(sc, svc)
	httpSrv := newHTTPServer(sc, st, hub)

	errc := make(chan error, 2)
	go func() {
		slog.Info("gRPC service listening", "port", sc.GRPCPort)
		errc <- grpcSrv.Serve(lis)
	}()
	go func() {
		slog.Info("HTTP server listening", "port", sc.HTTPPort)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errc:
	}

	slog.Info("slider-server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	grpcSrv.GracefulStop()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		slog.Warn("HTTP shutdown", "err", serr)
	}
	return err
}

// watchConfig applies log level and credential store bound changes from the
// config file while the server runs.
func watchConfig(ctx context.Context, path string, svc *service.Service) {
	err := config.Watch(ctx, path, func(next *config.Config) {
		if err := logging.SetLevel(next.Server.LogLevel); err != nil {
			slog.Error("config: apply log level", "err", err)
		}
		svc.SetBlobLimit(next.Server.SecurityStore.MaxBytes)
	})
	if err != nil {
		slog.Error("config watcher stopped", "err", err)
	}
}

func newGRPCServer(sc config.ServerConfig, svc *service.Service) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.UnaryInterceptor(auth.APIKeyInterceptor(sc.Auth.Mode, sc.Auth.EffectiveHeader(), sc.Auth.Key())),
	)
	wire.RegisterClusterStatusServer(srv, svc)
	return srv
}

// newHTTPServer serves the REST API, Prometheus metrics and the live
// container stream on one port. Only /api/ is behind the API key.
func newHTTPServer(sc config.ServerConfig, st *store.Store, hub *ws.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/api/", auth.APIKeyMiddleware(sc.Auth.Mode, sc.Auth.EffectiveHeader(), sc.Auth.Key(), api.New(st)))
	mux.Handle("/metrics", metrics.Handler(st))
	mux.Handle("/ws/containers", hub)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", sc.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
