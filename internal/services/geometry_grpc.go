package services

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GeometryServiceName is the fully qualified gRPC service name
const GeometryServiceName = "spherical.v1.GeometryService"

const (
	GeometryService_Distance_FullMethodName    = "/" + GeometryServiceName + "/Distance"
	GeometryService_Bearing_FullMethodName     = "/" + GeometryServiceName + "/Bearing"
	GeometryService_Interpolate_FullMethodName = "/" + GeometryServiceName + "/Interpolate"
	GeometryService_CrossTrack_FullMethodName  = "/" + GeometryServiceName + "/CrossTrack"
	GeometryService_Centroid_FullMethodName    = "/" + GeometryServiceName + "/Centroid"
	GeometryService_Area_FullMethodName        = "/" + GeometryServiceName + "/Area"
	GeometryService_Path_FullMethodName        = "/" + GeometryServiceName + "/Path"
	GeometryService_Circle_FullMethodName      = "/" + GeometryServiceName + "/Circle"
	GeometryService_Triangle_FullMethodName    = "/" + GeometryServiceName + "/Triangle"
	GeometryService_Feed_FullMethodName        = "/" + GeometryServiceName + "/Feed"
)

// GeometryServiceServer is the server API for GeometryService. Requests are
// free-form structs; measurements come back as structs and renders as
// GeoJSON or KML bodies.
type GeometryServiceServer interface {
	Distance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Bearing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Interpolate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CrossTrack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Centroid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Area(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Path(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Circle(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Triangle(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Feed(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
}

// UnimplementedGeometryServiceServer can be embedded to have forward compatible implementations.
type UnimplementedGeometryServiceServer struct{}

func (UnimplementedGeometryServiceServer) Distance(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Distance not implemented")
}
func (UnimplementedGeometryServiceServer) Bearing(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Bearing not implemented")
}
func (UnimplementedGeometryServiceServer) Interpolate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Interpolate not implemented")
}
func (UnimplementedGeometryServiceServer) CrossTrack(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CrossTrack not implemented")
}
func (UnimplementedGeometryServiceServer) Centroid(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Centroid not implemented")
}
func (UnimplementedGeometryServiceServer) Area(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Area not implemented")
}
func (UnimplementedGeometryServiceServer) Path(context.Context, *structpb.Struct) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Path not implemented")
}
func (UnimplementedGeometryServiceServer) Circle(context.Context, *structpb.Struct) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Circle not implemented")
}
func (UnimplementedGeometryServiceServer) Triangle(context.Context, *structpb.Struct) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Triangle not implemented")
}
func (UnimplementedGeometryServiceServer) Feed(context.Context, *structpb.Struct) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Feed not implemented")
}

// RegisterGeometryServiceServer registers srv with s
func RegisterGeometryServiceServer(s grpc.ServiceRegistrar, srv GeometryServiceServer) {
	s.RegisterService(&GeometryService_ServiceDesc, srv)
}

// structHandler adapts a struct-to-struct method to a grpc.MethodDesc handler
func structHandler(fullMethod string, call func(GeometryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GeometryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GeometryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// bodyHandler adapts a struct-to-body method to a grpc.MethodDesc handler
func bodyHandler(fullMethod string, call func(GeometryServiceServer, context.Context, *structpb.Struct) (*httpbody.HttpBody, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GeometryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GeometryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GeometryService_ServiceDesc is the grpc.ServiceDesc for GeometryService
var GeometryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: GeometryServiceName,
	HandlerType: (*GeometryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Distance", Handler: structHandler(GeometryService_Distance_FullMethodName, GeometryServiceServer.Distance)},
		{MethodName: "Bearing", Handler: structHandler(GeometryService_Bearing_FullMethodName, GeometryServiceServer.Bearing)},
		{MethodName: "Interpolate", Handler: structHandler(GeometryService_Interpolate_FullMethodName, GeometryServiceServer.Interpolate)},
		{MethodName: "CrossTrack", Handler: structHandler(GeometryService_CrossTrack_FullMethodName, GeometryServiceServer.CrossTrack)},
		{MethodName: "Centroid", Handler: structHandler(GeometryService_Centroid_FullMethodName, GeometryServiceServer.Centroid)},
		{MethodName: "Area", Handler: structHandler(GeometryService_Area_FullMethodName, GeometryServiceServer.Area)},
		{MethodName: "Path", Handler: bodyHandler(GeometryService_Path_FullMethodName, GeometryServiceServer.Path)},
		{MethodName: "Circle", Handler: bodyHandler(GeometryService_Circle_FullMethodName, GeometryServiceServer.Circle)},
		{MethodName: "Triangle", Handler: bodyHandler(GeometryService_Triangle_FullMethodName, GeometryServiceServer.Triangle)},
		{MethodName: "Feed", Handler: bodyHandler(GeometryService_Feed_FullMethodName, GeometryServiceServer.Feed)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spherical/v1/geometry.proto",
}

// GeometryServiceClient is the client API for GeometryService
type GeometryServiceClient interface {
	Distance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Bearing(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Interpolate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CrossTrack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Centroid(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Area(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Path(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	Circle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	Triangle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	Feed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
}

type geometryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGeometryServiceClient creates a client over cc
func NewGeometryServiceClient(cc grpc.ClientConnInterface) GeometryServiceClient {
	return &geometryServiceClient{cc}
}

func (c *geometryServiceClient) invokeStruct(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *geometryServiceClient) invokeBody(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *geometryServiceClient) Distance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_Distance_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Bearing(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_Bearing_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Interpolate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_Interpolate_FullMethodName, in, opts)
}

func (c *geometryServiceClient) CrossTrack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_CrossTrack_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Centroid(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_Centroid_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Area(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, GeometryService_Area_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Path(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	return c.invokeBody(ctx, GeometryService_Path_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Circle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	return c.invokeBody(ctx, GeometryService_Circle_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Triangle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	return c.invokeBody(ctx, GeometryService_Triangle_FullMethodName, in, opts)
}

func (c *geometryServiceClient) Feed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	return c.invokeBody(ctx, GeometryService_Feed_FullMethodName, in, opts)
}
