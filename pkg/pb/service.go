// Package pb holds the SpectrumService gRPC contract declared in
// proto/spectrum/v1/spectrum.proto. Every message travels as a
// google.protobuf.Struct, so only the service bindings live here, in the
// layout protoc-gen-go-grpc emits; the typed helpers in messages.go convert
// the Struct payloads.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SpectrumService_ServiceName                  = "spectrum.v1.SpectrumService"
	SpectrumService_ListDetectors_FullMethodName = "/spectrum.v1.SpectrumService/ListDetectors"
	SpectrumService_ExtractRange_FullMethodName  = "/spectrum.v1.SpectrumService/ExtractRange"
)

// SpectrumServiceServer is the server API for SpectrumService
type SpectrumServiceServer interface {
	ListDetectors(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExtractRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedSpectrumServiceServer can be embedded to keep forward compatibility
type UnimplementedSpectrumServiceServer struct{}

func (UnimplementedSpectrumServiceServer) ListDetectors(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDetectors not implemented")
}

func (UnimplementedSpectrumServiceServer) ExtractRange(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ExtractRange not implemented")
}

// RegisterSpectrumServiceServer registers srv on s
func RegisterSpectrumServiceServer(s grpc.ServiceRegistrar, srv SpectrumServiceServer) {
	s.RegisterService(&SpectrumService_ServiceDesc, srv)
}

func _SpectrumService_ListDetectors_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpectrumServiceServer).ListDetectors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SpectrumService_ListDetectors_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpectrumServiceServer).ListDetectors(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _SpectrumService_ExtractRange_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpectrumServiceServer).ExtractRange(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SpectrumService_ExtractRange_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpectrumServiceServer).ExtractRange(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SpectrumService_ServiceDesc is the grpc.ServiceDesc for SpectrumService
var SpectrumService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SpectrumService_ServiceName,
	HandlerType: (*SpectrumServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListDetectors", Handler: _SpectrumService_ListDetectors_Handler},
		{MethodName: "ExtractRange", Handler: _SpectrumService_ExtractRange_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spectrum/v1/spectrum.proto",
}

// SpectrumServiceClient is the client API for SpectrumService
type SpectrumServiceClient interface {
	ListDetectors(ctx context.Context, in *ListDetectorsRequest, opts ...grpc.CallOption) (*ListDetectorsResponse, error)
	ExtractRange(ctx context.Context, in *ExtractRangeRequest, opts ...grpc.CallOption) (*ExtractRangeResponse, error)
}

type spectrumServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSpectrumServiceClient wraps a connection
func NewSpectrumServiceClient(cc grpc.ClientConnInterface) SpectrumServiceClient {
	return &spectrumServiceClient{cc: cc}
}

func (c *spectrumServiceClient) ListDetectors(ctx context.Context, in *ListDetectorsRequest, opts ...grpc.CallOption) (*ListDetectorsResponse, error) {
	req, err := in.ToStruct()
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SpectrumService_ListDetectors_FullMethodName, req, out, opts...); err != nil {
		return nil, err
	}
	return ListDetectorsResponseFromStruct(out)
}

func (c *spectrumServiceClient) ExtractRange(ctx context.Context, in *ExtractRangeRequest, opts ...grpc.CallOption) (*ExtractRangeResponse, error) {
	req, err := in.ToStruct()
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SpectrumService_ExtractRange_FullMethodName, req, out, opts...); err != nil {
		return nil, err
	}
	return ExtractRangeResponseFromStruct(out)
}
