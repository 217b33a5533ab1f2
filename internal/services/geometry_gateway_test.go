package services

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

// newBufconnClient serves svc over an in-memory listener and returns a client for it
func newBufconnClient(t *testing.T, svc GeometryServiceServer) GeometryServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterGeometryServiceServer(server, svc)
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewGeometryServiceClient(conn)
}

func newGatewayServer(t *testing.T, client GeometryServiceClient) *httptest.Server {
	t.Helper()
	mux := runtime.NewServeMux()
	require.NoError(t, RegisterGeometryServiceHandlerClient(context.Background(), mux, client))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGeometryService_OverGRPC(t *testing.T) {
	svc, _ := newTestService(t, nil)
	client := newBufconnClient(t, svc)
	ctx := context.Background()

	resp, err := client.Distance(ctx, newRequest(t, map[string]any{"from": london, "to": paris}))
	require.NoError(t, err)
	assert.InDelta(t, 343.5, number(t, resp, "kilometers"), 1)

	body, err := client.Circle(ctx, newRequest(t, map[string]any{"center": murphys, "radiusKm": 3}))
	require.NoError(t, err)
	assert.Equal(t, ContentTypeGeoJSON, body.GetContentType())

	_, err = client.Bearing(ctx, newRequest(t, map[string]any{"from": london}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = client.Feed(ctx, newRequest(t, map[string]any{"feed": "nope"}))
	assertCode(t, err, codes.NotFound)
}

func TestGeometryService_Unimplemented(t *testing.T) {
	client := newBufconnClient(t, UnimplementedGeometryServiceServer{})
	_, err := client.Area(context.Background(), newRequest(t, map[string]any{}))
	assertCode(t, err, codes.Unimplemented)
}

func getJSON(t *testing.T, rawURL string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestGateway_Distance(t *testing.T) {
	svc, _ := newTestService(t, nil)
	srv := newGatewayServer(t, newBufconnClient(t, svc))

	q := url.Values{}
	q.Set("from", "51.5074,-0.1278")
	q.Set("to", "48.8566,2.3522")
	q.Set("unit", "nm")

	code, out := getJSON(t, srv.URL+"/api/v1/distance?"+q.Encode())
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 343.5, out["kilometers"], 1)
	assert.Equal(t, "nm", out["unit"])
}

func TestGateway_BadRequest(t *testing.T) {
	svc, _ := newTestService(t, nil)
	srv := newGatewayServer(t, newBufconnClient(t, svc))

	code, out := getJSON(t, srv.URL+"/api/v1/distance?to=48.8566,2.3522")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, out["message"], "from")

	code, _ = getJSON(t, srv.URL+"/api/v1/feeds/unknown")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGateway_PostBody(t *testing.T) {
	svc, _ := newTestService(t, nil)
	srv := newGatewayServer(t, newBufconnClient(t, svc))

	resp, err := http.Post(srv.URL+"/api/v1/centroid", "application/json",
		strings.NewReader(`{"points": [[0, 0], [0, 10]]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.InDelta(t, 0, out["lat"], 1e-9)
	assert.InDelta(t, 5, out["lon"], 1e-9)
}

func TestGateway_PathBody(t *testing.T) {
	svc, _ := newTestService(t, nil)
	srv := newGatewayServer(t, newBufconnClient(t, svc))

	resp, err := http.Get(srv.URL + "/api/v1/path?from=51.5074,-0.1278&to=48.8566,2.3522&points=4")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ContentTypeGeoJSON, resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	fc, err := orbjson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Len(t, fc.Features[0].Geometry, 5)
}

func TestGateway_Feed(t *testing.T) {
	feeds, _, _ := feedServer(t)
	svc, _ := newTestService(t, withFeed(feeds.URL, time.Minute))
	srv := newGatewayServer(t, newBufconnClient(t, svc))

	resp, err := http.Get(srv.URL + "/api/v1/feeds/chains?near=38.1377,-120.4652&withinKm=20")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	fc, err := orbjson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
}

func TestRequestFromHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/centroid?points=1,2&points=3,4&format=kml&segments=12&within=true", nil)
	marshaler, _ := runtime.MarshalerForRequest(runtime.NewServeMux(), req)

	in, err := requestFromHTTP(marshaler, req, map[string]string{"feed": "chains"})
	require.NoError(t, err)

	points := in.GetFields()["points"].GetListValue().GetValues()
	require.Len(t, points, 2)
	assert.Equal(t, 3.0, points[1].GetStructValue().GetFields()["lat"].GetNumberValue())
	assert.Equal(t, 4.0, points[1].GetStructValue().GetFields()["lon"].GetNumberValue())
	assert.Equal(t, "kml", in.GetFields()["format"].GetStringValue())
	assert.Equal(t, 12.0, in.GetFields()["segments"].GetNumberValue())
	assert.True(t, in.GetFields()["within"].GetBoolValue())
	assert.Equal(t, "chains", in.GetFields()["feed"].GetStringValue())

	single := httptest.NewRequest(http.MethodGet, "/api/v1/centroid?vertices=1,2", nil)
	in, err = requestFromHTTP(marshaler, single, nil)
	require.NoError(t, err)
	assert.Len(t, in.GetFields()["vertices"].GetListValue().GetValues(), 1)
}
