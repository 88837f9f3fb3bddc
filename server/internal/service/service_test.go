package service_test

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/sliderstack/sliderstack/pkg/marshal"
	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
	"github.com/sliderstack/sliderstack/server/internal/auth"
	"github.com/sliderstack/sliderstack/server/internal/service"
	"github.com/sliderstack/sliderstack/server/internal/store"
)

const aggregateDoc = `{
  "internal": {"global": {"internal.queue": "default"}},
  "resources": {"components": {"worker": {"yarn.memory": "512"}}},
  "appConf": {"global": {"site.fs.defaultFS": "hdfs://nn:8020"}}
}`

type fixture struct {
	client  *wire.ClusterStatusClient
	store   *store.Store
	svc     *service.Service
	certDir string
}

// startServer starts a gRPC server with the given interceptor and returns a
// connected client. Uses a random TCP port.
func startServer(t *testing.T, interceptor grpc.UnaryServerInterceptor) fixture {
	t.Helper()

	st := store.New(5 * time.Minute)
	certDir := t.TempDir()
	svc := service.New(st, certDir, 1<<20)

	srv := grpc.NewServer(
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.UnaryInterceptor(interceptor),
	)
	wire.RegisterClusterStatusServer(srv, svc)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go srv.Serve(lis) //nolint:errcheck

	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})

	conn, err := grpc.Dial(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	) //nolint:staticcheck
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return fixture{client: wire.NewClusterStatusClient(conn), store: st, svc: svc, certDir: certDir}
}

// allowAll is a no-op interceptor that passes every call through.
func allowAll(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	return handler(ctx, req)
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil error", want)
	}
	if code := status.Code(err); code != want {
		t.Errorf("code: got %v, want %v (%v)", code, want, err)
	}
}

func TestLiveness_UpdateThenGet(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	got, err := f.client.GetLiveness(ctx, &wire.Empty{})
	if err != nil {
		t.Fatalf("GetLiveness: %v", err)
	}
	if got.AllRequestsSatisfied || got.RequestsOutstanding != 0 {
		t.Errorf("fresh liveness: got %+v, want zero", got)
	}

	_, err = f.client.UpdateLiveness(ctx, &wire.LivenessInfo{AllRequestsSatisfied: false, RequestsOutstanding: 3})
	if err != nil {
		t.Fatalf("UpdateLiveness: %v", err)
	}
	if l := f.store.Liveness(); l.RequestsOutstanding != 3 {
		t.Errorf("store liveness: got %+v, want 3 outstanding", l)
	}

	got, err = f.client.GetLiveness(ctx, &wire.Empty{})
	if err != nil {
		t.Fatalf("GetLiveness: %v", err)
	}
	if got.RequestsOutstanding != 3 {
		t.Errorf("RequestsOutstanding: got %d, want 3", got.RequestsOutstanding)
	}
}

func TestComponent_UpdateGetAndList(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	msg := "node lost"
	worker := &types.ComponentStatus{
		Name: "worker", Priority: 2, Desired: 3, Actual: 2,
		FailureMessage: &msg, Containers: []string{"c-2", "c-1"},
	}
	if _, err := f.client.UpdateComponent(ctx, marshal.MarshalComponent(worker)); err != nil {
		t.Fatalf("UpdateComponent: %v", err)
	}
	if _, err := f.client.UpdateComponent(ctx, &wire.ComponentInfo{Name: "master", Priority: 1}); err != nil {
		t.Fatalf("UpdateComponent: %v", err)
	}

	w, err := f.client.GetComponent(ctx, &wire.GetComponentRequest{Name: "worker"})
	if err != nil {
		t.Fatalf("GetComponent: %v", err)
	}
	got := marshal.UnmarshalComponent(w)
	if got.Desired != 3 || got.Actual != 2 {
		t.Errorf("counters: got desired=%d actual=%d", got.Desired, got.Actual)
	}
	if got.FailureMessage == nil || *got.FailureMessage != msg {
		t.Errorf("FailureMessage: got %v, want %q", got.FailureMessage, msg)
	}
	if len(got.Containers) != 2 || got.Containers[0] != "c-2" {
		t.Errorf("Containers: got %v, want [c-2 c-1]", got.Containers)
	}

	list, err := f.client.ListComponents(ctx, &wire.Empty{})
	if err != nil {
		t.Fatalf("ListComponents: %v", err)
	}
	if len(list.Components) != 2 || list.Components[0].Name != "master" {
		t.Errorf("ListComponents: got %+v", list.Components)
	}
}

func TestGetComponent_Unknown_NotFound(t *testing.T) {
	f := startServer(t, allowAll)
	_, err := f.client.GetComponent(context.Background(), &wire.GetComponentRequest{Name: "nope"})
	wantCode(t, err, codes.NotFound)
}

func TestUpdateComponent_MissingName_InvalidArgument(t *testing.T) {
	f := startServer(t, allowAll)
	_, err := f.client.UpdateComponent(context.Background(), &wire.ComponentInfo{})
	wantCode(t, err, codes.InvalidArgument)
}

func TestContainers_UpdateListAndRelease(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	host := "node-1"
	for _, c := range []*wire.ContainerInfo{
		{ContainerId: "c-2", Component: "worker", CreateTime: 20},
		{ContainerId: "c-1", Component: "worker", CreateTime: 10, Host: &host},
	} {
		if _, err := f.client.UpdateContainer(ctx, c); err != nil {
			t.Fatalf("UpdateContainer %s: %v", c.ContainerId, err)
		}
	}

	resp, err := f.client.GetLiveContainers(ctx, &wire.Empty{})
	if err != nil {
		t.Fatalf("GetLiveContainers: %v", err)
	}
	live := marshal.UnmarshalLiveContainers(resp)
	if len(live) != 2 || live[0].ContainerID != "c-1" {
		t.Fatalf("live containers: got %+v", live)
	}
	if live[0].Host == nil || *live[0].Host != host {
		t.Errorf("Host: got %v, want %q", live[0].Host, host)
	}

	released := true
	if _, err := f.client.UpdateContainer(ctx, &wire.ContainerInfo{ContainerId: "c-1", Released: &released}); err != nil {
		t.Fatalf("UpdateContainer release: %v", err)
	}
	if n := f.store.Count(); n != 1 {
		t.Errorf("store.Count after release: got %d, want 1", n)
	}
}

func TestUpdateContainer_MissingID_InvalidArgument(t *testing.T) {
	f := startServer(t, allowAll)
	_, err := f.client.UpdateContainer(context.Background(), &wire.ContainerInfo{Component: "worker"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestModel_UpdateAndSections(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	if _, err := f.client.UpdateModel(ctx, &wire.UpdateModelRequest{Name: "resolved", JSON: aggregateDoc}); err != nil {
		t.Fatalf("UpdateModel: %v", err)
	}

	whole, err := f.client.GetModel(ctx, &wire.GetModelRequest{Name: "resolved"})
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if whole.JSON != aggregateDoc {
		t.Errorf("whole model not returned verbatim: %q", whole.JSON)
	}

	sec, err := f.client.GetModel(ctx, &wire.GetModelRequest{Name: "resolved", Section: "resources"})
	if err != nil {
		t.Fatalf("GetModel resources: %v", err)
	}
	tree, err := marshal.UnmarshalConfTree(sec)
	if err != nil {
		t.Fatalf("UnmarshalConfTree: %v", err)
	}
	if got := tree.Components["worker"]["yarn.memory"]; got != "512" {
		t.Errorf("resources worker yarn.memory: got %q, want 512", got)
	}
}

func TestModel_Errors(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	_, err := f.client.GetModel(ctx, &wire.GetModelRequest{Name: "missing"})
	wantCode(t, err, codes.NotFound)

	_, err = f.client.UpdateModel(ctx, &wire.UpdateModelRequest{Name: "bad", JSON: `{"internal": `})
	wantCode(t, err, codes.InvalidArgument)
	if _, ok := f.store.Model("bad"); ok {
		t.Error("rejected model was stored")
	}

	_, err = f.client.UpdateModel(ctx, &wire.UpdateModelRequest{JSON: aggregateDoc})
	wantCode(t, err, codes.InvalidArgument)

	f.store.SetModel("app", aggregateDoc)
	_, err = f.client.GetModel(ctx, &wire.GetModelRequest{Name: "app", Section: "bogus"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestCertificateStore(t *testing.T) {
	f := startServer(t, allowAll)
	ctx := context.Background()

	data := bytes.Repeat([]byte{0x30, 0x82, 0x00}, 100)
	if err := os.WriteFile(filepath.Join(f.certDir, "keystore.p12"), data, 0o600); err != nil {
		t.Fatalf("write keystore: %v", err)
	}

	resp, err := f.client.GetCertificateStore(ctx, &wire.GetCertificateStoreRequest{Type: "keystore"})
	if err != nil {
		t.Fatalf("GetCertificateStore: %v", err)
	}
	if !bytes.Equal(marshal.UnmarshalCertificateStore(resp), data) {
		t.Error("store bytes differ after transfer")
	}

	_, err = f.client.GetCertificateStore(ctx, &wire.GetCertificateStoreRequest{Type: "truststore"})
	wantCode(t, err, codes.NotFound)

	_, err = f.client.GetCertificateStore(ctx, &wire.GetCertificateStoreRequest{Type: "wallet"})
	wantCode(t, err, codes.InvalidArgument)

	f.svc.SetBlobLimit(10)
	_, err = f.client.GetCertificateStore(ctx, &wire.GetCertificateStoreRequest{Type: "keystore"})
	wantCode(t, err, codes.ResourceExhausted)
}

func TestCertificateStore_EmptyFile(t *testing.T) {
	f := startServer(t, allowAll)
	if err := os.WriteFile(filepath.Join(f.certDir, "truststore.p12"), nil, 0o600); err != nil {
		t.Fatalf("write truststore: %v", err)
	}
	resp, err := f.client.GetCertificateStore(context.Background(), &wire.GetCertificateStoreRequest{Type: "truststore"})
	if err != nil {
		t.Fatalf("GetCertificateStore: %v", err)
	}
	got := marshal.UnmarshalCertificateStore(resp)
	if got == nil || len(got) != 0 {
		t.Errorf("empty store: got %v, want empty non-nil", got)
	}
}

func TestAuth_Interceptor(t *testing.T) {
	f := startServer(t, auth.APIKeyInterceptor("apikey", "x-api-key", "secret"))

	_, err := f.client.GetLiveness(context.Background(), &wire.Empty{})
	wantCode(t, err, codes.Unauthenticated)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-api-key", "secret")
	if _, err := f.client.GetLiveness(ctx, &wire.Empty{}); err != nil {
		t.Fatalf("GetLiveness with key: %v", err)
	}
}
