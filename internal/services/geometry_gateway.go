package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/grpclog"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// route binds an HTTP path to a GeometryService method
type route struct {
	path    string
	methods []string
	rpc     string
	call    func(context.Context, GeometryServiceClient, *structpb.Struct) (proto.Message, error)
}

// listParams are always decoded as lists, even when given once
var listParams = map[string]bool{"points": true, "vertices": true}

var geometryRoutes = []route{
	{"/api/v1/distance", getPost, GeometryService_Distance_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Distance(ctx, in)
	}},
	{"/api/v1/bearing", getPost, GeometryService_Bearing_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Bearing(ctx, in)
	}},
	{"/api/v1/interpolate", getPost, GeometryService_Interpolate_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Interpolate(ctx, in)
	}},
	{"/api/v1/cross-track", getPost, GeometryService_CrossTrack_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.CrossTrack(ctx, in)
	}},
	{"/api/v1/centroid", getPost, GeometryService_Centroid_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Centroid(ctx, in)
	}},
	{"/api/v1/area", getPost, GeometryService_Area_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Area(ctx, in)
	}},
	{"/api/v1/path", getPost, GeometryService_Path_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Path(ctx, in)
	}},
	{"/api/v1/circle", getPost, GeometryService_Circle_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Circle(ctx, in)
	}},
	{"/api/v1/triangle", getPost, GeometryService_Triangle_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Triangle(ctx, in)
	}},
	{"/api/v1/feeds/{feed}", []string{http.MethodGet}, GeometryService_Feed_FullMethodName, func(ctx context.Context, c GeometryServiceClient, in *structpb.Struct) (proto.Message, error) {
		return c.Feed(ctx, in)
	}},
}

var getPost = []string{http.MethodGet, http.MethodPost}

// RegisterGeometryServiceHandlerFromEndpoint is same as RegisterGeometryServiceHandler but
// automatically dials to "endpoint" and closes the connection when "ctx" gets done.
func RegisterGeometryServiceHandlerFromEndpoint(ctx context.Context, mux *runtime.ServeMux, endpoint string, opts []grpc.DialOption) (err error) {
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if cerr := conn.Close(); cerr != nil {
				grpclog.Errorf("Failed to close conn to %s: %v", endpoint, cerr)
			}
			return
		}
		go func() {
			<-ctx.Done()
			if cerr := conn.Close(); cerr != nil {
				grpclog.Errorf("Failed to close conn to %s: %v", endpoint, cerr)
			}
		}()
	}()
	return RegisterGeometryServiceHandler(ctx, mux, conn)
}

// RegisterGeometryServiceHandler registers the http handlers for service GeometryService to "mux".
// The handlers forward requests to the grpc endpoint over "conn".
func RegisterGeometryServiceHandler(ctx context.Context, mux *runtime.ServeMux, conn grpc.ClientConnInterface) error {
	return RegisterGeometryServiceHandlerClient(ctx, mux, NewGeometryServiceClient(conn))
}

// RegisterGeometryServiceHandlerClient registers the http handlers for service GeometryService
// to "mux". Requests are built from the JSON body merged with query and path parameters.
func RegisterGeometryServiceHandlerClient(ctx context.Context, mux *runtime.ServeMux, client GeometryServiceClient) error {
	for _, rt := range geometryRoutes {
		for _, method := range rt.methods {
			if err := mux.HandlePath(method, rt.path, gatewayHandler(mux, client, rt)); err != nil {
				return fmt.Errorf("failed to register %s %s: %w", method, rt.path, err)
			}
		}
	}
	return nil
}

func gatewayHandler(mux *runtime.ServeMux, client GeometryServiceClient, rt route) runtime.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {
		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()
		inboundMarshaler, outboundMarshaler := runtime.MarshalerForRequest(mux, req)

		annotatedContext, err := runtime.AnnotateContext(ctx, mux, req, rt.rpc, runtime.WithHTTPPathPattern(rt.path))
		if err != nil {
			runtime.HTTPError(ctx, mux, outboundMarshaler, w, req, err)
			return
		}

		in, err := requestFromHTTP(inboundMarshaler, req, pathParams)
		if err != nil {
			runtime.HTTPError(annotatedContext, mux, outboundMarshaler, w, req, err)
			return
		}

		resp, err := rt.call(annotatedContext, client, in)
		if err != nil {
			runtime.HTTPError(annotatedContext, mux, outboundMarshaler, w, req, err)
			return
		}
		runtime.ForwardResponseMessage(annotatedContext, mux, outboundMarshaler, w, req, resp, mux.GetForwardResponseOptions()...)
	}
}

// requestFromHTTP decodes the JSON body, if any, and overlays query and path
// parameters. "lat,lon" values become coordinates and numeric values numbers.
func requestFromHTTP(marshaler runtime.Marshaler, req *http.Request, pathParams map[string]string) (*structpb.Struct, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if req.Body != nil && req.Method != http.MethodGet {
		if err := marshaler.NewDecoder(req.Body).Decode(in); err != nil && !errors.Is(err, io.EOF) {
			return nil, status.Errorf(codes.InvalidArgument, "%v", err)
		}
		if in.Fields == nil {
			in.Fields = map[string]*structpb.Value{}
		}
	}

	for key, values := range req.URL.Query() {
		if len(values) == 1 && !listParams[key] {
			in.Fields[key] = queryValue(values[0])
			continue
		}
		list := make([]*structpb.Value, len(values))
		for i, v := range values {
			list[i] = queryValue(v)
		}
		in.Fields[key] = structpb.NewListValue(&structpb.ListValue{Values: list})
	}

	for key, value := range pathParams {
		in.Fields[key] = structpb.NewStringValue(value)
	}
	return in, nil
}

func queryValue(raw string) *structpb.Value {
	if lat, lon, ok := latLon(raw); ok {
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"lat": structpb.NewNumberValue(lat),
			"lon": structpb.NewNumberValue(lon),
		}})
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return structpb.NewNumberValue(n)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return structpb.NewBoolValue(b)
	}
	return structpb.NewStringValue(raw)
}

func latLon(raw string) (float64, float64, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
