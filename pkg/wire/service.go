package wire

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the ClusterStatus service.
const ServiceName = "slider.v1.ClusterStatus"

// Full method names of the ClusterStatus service.
const (
	MethodGetLiveness         = "/" + ServiceName + "/GetLiveness"
	MethodListComponents      = "/" + ServiceName + "/ListComponents"
	MethodGetComponent        = "/" + ServiceName + "/GetComponent"
	MethodGetLiveContainers   = "/" + ServiceName + "/GetLiveContainers"
	MethodGetCertificateStore = "/" + ServiceName + "/GetCertificateStore"
	MethodGetModel            = "/" + ServiceName + "/GetModel"
	MethodUpdateLiveness      = "/" + ServiceName + "/UpdateLiveness"
	MethodUpdateComponent     = "/" + ServiceName + "/UpdateComponent"
	MethodUpdateContainer     = "/" + ServiceName + "/UpdateContainer"
	MethodUpdateModel         = "/" + ServiceName + "/UpdateModel"
)

// ClusterStatusServer is the server API for the ClusterStatus service.
type ClusterStatusServer interface {
	GetLiveness(context.Context, *Empty) (*LivenessInfo, error)
	ListComponents(context.Context, *Empty) (*ListComponentsResponse, error)
	GetComponent(context.Context, *GetComponentRequest) (*ComponentInfo, error)
	GetLiveContainers(context.Context, *Empty) (*GetLiveContainersResponse, error)
	GetCertificateStore(context.Context, *GetCertificateStoreRequest) (*CertificateStoreResponse, error)
	GetModel(context.Context, *GetModelRequest) (*WrappedJSON, error)
	UpdateLiveness(context.Context, *LivenessInfo) (*Empty, error)
	UpdateComponent(context.Context, *ComponentInfo) (*Empty, error)
	UpdateContainer(context.Context, *ContainerInfo) (*Empty, error)
	UpdateModel(context.Context, *UpdateModelRequest) (*Empty, error)
}

// RegisterClusterStatusServer registers srv on s. The server must be built
// with grpc.ForceServerCodec(Codec{}) or receive calls from clients using
// the slider-wire content subtype.
func RegisterClusterStatusServer(s grpc.ServiceRegistrar, srv ClusterStatusServer) {
	s.RegisterService(&ClusterStatusServiceDesc, srv)
}

// ClusterStatusServiceDesc describes the ClusterStatus service for grpc.Server.
var ClusterStatusServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClusterStatusServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetLiveness", MethodGetLiveness, ClusterStatusServer.GetLiveness),
		unary("ListComponents", MethodListComponents, ClusterStatusServer.ListComponents),
		unary("GetComponent", MethodGetComponent, ClusterStatusServer.GetComponent),
		unary("GetLiveContainers", MethodGetLiveContainers, ClusterStatusServer.GetLiveContainers),
		unary("GetCertificateStore", MethodGetCertificateStore, ClusterStatusServer.GetCertificateStore),
		unary("GetModel", MethodGetModel, ClusterStatusServer.GetModel),
		unary("UpdateLiveness", MethodUpdateLiveness, ClusterStatusServer.UpdateLiveness),
		unary("UpdateComponent", MethodUpdateComponent, ClusterStatusServer.UpdateComponent),
		unary("UpdateContainer", MethodUpdateContainer, ClusterStatusServer.UpdateContainer),
		unary("UpdateModel", MethodUpdateModel, ClusterStatusServer.UpdateModel),
	},
	Metadata: "proto/slider/v1/messages.proto",
}

// unary builds the method descriptor for one ClusterStatus call: decode the
// request envelope, run interceptors, dispatch to call.
func unary[Req any, PReq interface {
	*Req
	Message
}, Resp Message](name, fullMethod string, call func(ClusterStatusServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(srv.(ClusterStatusServer), ctx, req.(PReq))
				if err != nil {
					return nil, err
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ClusterStatusClient is the client API for the ClusterStatus service.
// Calls are sent with the slider-wire codec.
type ClusterStatusClient struct {
	cc grpc.ClientConnInterface
}

// NewClusterStatusClient wraps cc.
func NewClusterStatusClient(cc grpc.ClientConnInterface) *ClusterStatusClient {
	return &ClusterStatusClient{cc: cc}
}

func invoke[Resp any, PResp interface {
	*Resp
	Message
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ClusterStatusClient) GetLiveness(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*LivenessInfo, error) {
	return invoke[LivenessInfo](ctx, c.cc, MethodGetLiveness, in, opts)
}

func (c *ClusterStatusClient) ListComponents(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListComponentsResponse, error) {
	return invoke[ListComponentsResponse](ctx, c.cc, MethodListComponents, in, opts)
}

func (c *ClusterStatusClient) GetComponent(ctx context.Context, in *GetComponentRequest, opts ...grpc.CallOption) (*ComponentInfo, error) {
	return invoke[ComponentInfo](ctx, c.cc, MethodGetComponent, in, opts)
}

func (c *ClusterStatusClient) GetLiveContainers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetLiveContainersResponse, error) {
	return invoke[GetLiveContainersResponse](ctx, c.cc, MethodGetLiveContainers, in, opts)
}

func (c *ClusterStatusClient) GetCertificateStore(ctx context.Context, in *GetCertificateStoreRequest, opts ...grpc.CallOption) (*CertificateStoreResponse, error) {
	return invoke[CertificateStoreResponse](ctx, c.cc, MethodGetCertificateStore, in, opts)
}

func (c *ClusterStatusClient) GetModel(ctx context.Context, in *GetModelRequest, opts ...grpc.CallOption) (*WrappedJSON, error) {
	return invoke[WrappedJSON](ctx, c.cc, MethodGetModel, in, opts)
}

func (c *ClusterStatusClient) UpdateLiveness(ctx context.Context, in *LivenessInfo, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateLiveness, in, opts)
}

func (c *ClusterStatusClient) UpdateComponent(ctx context.Context, in *ComponentInfo, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateComponent, in, opts)
}

func (c *ClusterStatusClient) UpdateContainer(ctx context.Context, in *ContainerInfo, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateContainer, in, opts)
}

func (c *ClusterStatusClient) UpdateModel(ctx context.Context, in *UpdateModelRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateModel, in, opts)
}
