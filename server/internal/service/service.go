package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sliderstack/sliderstack/pkg/marshal"
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
	"github.com/sliderstack/sliderstack/server/internal/securitystore"
	"github.com/sliderstack/sliderstack/server/internal/store"
)

// Lookup failures reported by ResolveModel.
var (
	ErrModelNotFound  = errors.New("model not found")
	ErrUnknownSection = errors.New("unknown model section")
)

// Service implements wire.ClusterStatusServer on top of a status store.
// Outbound status goes through the marshal package; inbound updates are
// converted back to domain values before they reach the store.
type Service struct {
	store     *store.Store
	certDir   string
	blobLimit atomic.Int64
}

var _ wire.ClusterStatusServer = (*Service)(nil)

// New creates a Service backed by st that serves credential stores from
// certDir, reading at most blobLimit bytes of each (0 = no bound).
func New(st *store.Store, certDir string, blobLimit int64) *Service {
	s := &Service{store: st, certDir: certDir}
	s.blobLimit.Store(blobLimit)
	return s
}

// SetBlobLimit changes the credential store read bound. Safe to call while
// serving.
func (s *Service) SetBlobLimit(n int64) {
	s.blobLimit.Store(n)
}

func (s *Service) GetLiveness(ctx context.Context, _ *wire.Empty) (*wire.LivenessInfo, error) {
	l := s.store.Liveness()
	return marshal.MarshalLiveness(&l), nil
}

func (s *Service) ListComponents(ctx context.Context, _ *wire.Empty) (*wire.ListComponentsResponse, error) {
	return marshal.MarshalComponents(s.store.Components()), nil
}

func (s *Service) GetComponent(ctx context.Context, req *wire.GetComponentRequest) (*wire.ComponentInfo, error) {
	c, ok := s.store.Component(req.Name)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "component %q not found", req.Name)
	}
	return marshal.MarshalComponent(&c), nil
}

func (s *Service) GetLiveContainers(ctx context.Context, _ *wire.Empty) (*wire.GetLiveContainersResponse, error) {
	return marshal.MarshalLiveContainers(s.store.Containers()), nil
}

func (s *Service) GetCertificateStore(ctx context.Context, req *wire.GetCertificateStoreRequest) (*wire.CertificateStoreResponse, error) {
	typ, err := securitystore.ParseType(req.Type)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := marshal.MarshalCertificateStore(securitystore.New(s.certDir, typ), s.blobLimit.Load())
	if err != nil {
		slog.Warn("service: certificate store unavailable", "type", typ, "err", err)
		return nil, toStatus(err)
	}
	slog.Debug("service: certificate store served", "type", typ, "bytes", len(resp.Store))
	return resp, nil
}

func (s *Service) GetModel(ctx context.Context, req *wire.GetModelRequest) (*wire.WrappedJSON, error) {
	w, err := ResolveModel(s.store, req.Name, req.Section)
	if err != nil {
		return nil, toStatus(err)
	}
	return w, nil
}

func (s *Service) UpdateLiveness(ctx context.Context, in *wire.LivenessInfo) (*wire.Empty, error) {
	s.store.SetLiveness(*marshal.UnmarshalLiveness(in))
	return &wire.Empty{}, nil
}

func (s *Service) UpdateComponent(ctx context.Context, in *wire.ComponentInfo) (*wire.Empty, error) {
	if in.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "component name is required")
	}
	s.store.PutComponent(*marshal.UnmarshalComponent(in))
	slog.Debug("service: component updated", "component", in.Name, "actual", in.Actual, "desired", in.Desired)
	return &wire.Empty{}, nil
}

func (s *Service) UpdateContainer(ctx context.Context, in *wire.ContainerInfo) (*wire.Empty, error) {
	if in.ContainerId == "" {
		return nil, status.Error(codes.InvalidArgument, "container id is required")
	}
	kept := s.store.PutContainer(*marshal.UnmarshalContainer(in))
	slog.Debug("service: container updated", "container", in.ContainerId, "component", in.Component, "live", kept)
	return &wire.Empty{}, nil
}

func (s *Service) UpdateModel(ctx context.Context, in *wire.UpdateModelRequest) (*wire.Empty, error) {
	if in.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "model name is required")
	}
	if _, err := marshal.UnmarshalAggregateConf(marshal.WrapJSON(in.JSON)); err != nil {
		slog.Warn("service: model rejected", "model", in.Name, "err", err)
		return nil, toStatus(err)
	}
	s.store.SetModel(in.Name, in.JSON)
	slog.Info("service: model updated", "model", in.Name, "bytes", len(in.JSON))
	return &wire.Empty{}, nil
}

// ResolveModel returns the named model document. With an empty section the
// stored aggregate is returned verbatim; otherwise the section is decoded
// and re-wrapped as a single configuration tree.
func ResolveModel(st *store.Store, name, section string) (*wire.WrappedJSON, error) {
	doc, ok := st.Model(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	if section == "" {
		return marshal.WrapJSON(doc), nil
	}
	agg, err := marshal.UnmarshalAggregateConf(marshal.WrapJSON(doc))
	if err != nil {
		return nil, err
	}
	tree, ok := agg.Section(section)
	if !ok {
		return nil, fmt.Errorf("%w: %q: want %s|%s|%s", ErrUnknownSection, section,
			types.SectionInternal, types.SectionResources, types.SectionAppConf)
	}
	return marshal.WrapConfTree(tree)
}

// toStatus maps marshalling and lookup failures onto gRPC status codes.
func toStatus(err error) error {
	var decErr *marshal.DecodeError
	var ioErr *marshal.IOError
	switch {
	case errors.As(err, &decErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrModelNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrUnknownSection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &ioErr):
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return status.Error(codes.NotFound, err.Error())
		case errors.Is(err, marshal.ErrStoreTooLarge):
			return status.Error(codes.ResourceExhausted, err.Error())
		}
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
