package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dpup/prefab/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/lib/geo"
)

// RequestError reports a missing or malformed request field
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request field %q: %s", e.Field, e.Reason)
}

func requestError(field, format string, args ...any) error {
	return &RequestError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var errFeedNotFound = errors.New("feed not found")

// toStatus maps domain errors onto gRPC status codes. Bad input of any kind
// is InvalidArgument; anything unexpected is logged and reported as Internal.
func toStatus(ctx context.Context, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		reqErr  *RequestError
		convErr *geojson.ConversionError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.As(err, &reqErr), errors.Is(err, geo.ErrValidation), errors.As(err, &convErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errFeedNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		logging.Errorw(ctx, "Geometry request failed", "method", method, "error", err)
		return status.Errorf(codes.Internal, "%s failed: %v", method, err)
	}
}

func field(req *structpb.Struct, name string) (*structpb.Value, bool) {
	v, ok := req.GetFields()[name]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// coordinateArg reads a required coordinate. Accepted forms are an object
// with lat/lon (and optional alt), a [lat, lon] list or a "lat,lon" string.
func coordinateArg(req *structpb.Struct, name string) (geo.Coordinate, error) {
	v, ok := field(req, name)
	if !ok {
		return geo.Coordinate{}, requestError(name, "is required")
	}
	return coordinateValue(name, v)
}

func coordinateValue(name string, v *structpb.Value) (geo.Coordinate, error) {
	var lat, lon float64
	alt, hasAlt := 0.0, false

	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		var okLat, okLon bool
		lat, okLat = firstNumber(fields, "lat", "latitude")
		lon, okLon = firstNumber(fields, "lon", "lng", "longitude")
		if !okLat || !okLon {
			return geo.Coordinate{}, requestError(name, "needs numeric lat and lon")
		}
		alt, hasAlt = firstNumber(fields, "alt", "altitude")

	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		if len(values) != 2 {
			return geo.Coordinate{}, requestError(name, "needs exactly [lat, lon]")
		}
		_, okLat := values[0].GetKind().(*structpb.Value_NumberValue)
		_, okLon := values[1].GetKind().(*structpb.Value_NumberValue)
		if !okLat || !okLon {
			return geo.Coordinate{}, requestError(name, "needs numeric [lat, lon]")
		}
		lat, lon = values[0].GetNumberValue(), values[1].GetNumberValue()

	case *structpb.Value_StringValue:
		parts := strings.Split(k.StringValue, ",")
		if len(parts) != 2 {
			return geo.Coordinate{}, requestError(name, "needs \"lat,lon\", got %q", k.StringValue)
		}
		var err1, err2 error
		lat, err1 = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, err2 = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return geo.Coordinate{}, requestError(name, "needs \"lat,lon\", got %q", k.StringValue)
		}

	default:
		return geo.Coordinate{}, requestError(name, "is not a coordinate")
	}

	if hasAlt {
		return geo.NewCoordinateWithAltitude(lat, lon, alt)
	}
	return geo.NewCoordinate(lat, lon)
}

// coordinatesArg reads a required list of coordinates
func coordinatesArg(req *structpb.Struct, name string) ([]geo.Coordinate, error) {
	v, ok := field(req, name)
	if !ok {
		return nil, requestError(name, "is required")
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, requestError(name, "must be a list of coordinates")
	}
	values := list.ListValue.GetValues()
	coords := make([]geo.Coordinate, len(values))
	for i, item := range values {
		c, err := coordinateValue(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return nil, err
		}
		coords[i] = c
	}
	return coords, nil
}

// numberArg reads an optional finite number; ok is false when the field is absent
func numberArg(req *structpb.Struct, name string) (value float64, ok bool, err error) {
	v, present := field(req, name)
	if !present {
		return 0, false, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		value = k.NumberValue
	case *structpb.Value_StringValue:
		value, err = strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64)
		if err != nil {
			return 0, false, requestError(name, "must be a number, got %q", k.StringValue)
		}
	default:
		return 0, false, requestError(name, "must be a number")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, requestError(name, "must be finite")
	}
	return value, true, nil
}

func requiredNumber(req *structpb.Struct, name string) (float64, error) {
	v, ok, err := numberArg(req, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, requestError(name, "is required")
	}
	return v, nil
}

// intArg reads an optional whole number
func intArg(req *structpb.Struct, name string) (int, bool, error) {
	v, ok, err := numberArg(req, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false, requestError(name, "must be a whole number, got %g", v)
	}
	return int(v), true, nil
}

func kilometersArg(req *structpb.Struct, name string) (geo.Distance, error) {
	km, err := requiredNumber(req, name)
	if err != nil {
		return geo.Distance{}, err
	}
	return geo.Kilometers(km)
}

func degreesArg(req *structpb.Struct, name string) (geo.Angle, error) {
	deg, err := requiredNumber(req, name)
	if err != nil {
		return geo.Angle{}, err
	}
	return geo.NewAngle(deg), nil
}

func stringArg(req *structpb.Struct, name, def string) string {
	v, ok := field(req, name)
	if !ok {
		return def
	}
	if s, ok := v.GetKind().(*structpb.Value_StringValue); ok && s.StringValue != "" {
		return s.StringValue
	}
	return def
}

func firstNumber(fields map[string]*structpb.Value, names ...string) (float64, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok {
			if n, ok := v.GetKind().(*structpb.Value_NumberValue); ok {
				return n.NumberValue, true
			}
		}
	}
	return 0, false
}

func coordinateResult(c geo.Coordinate) map[string]any {
	result := map[string]any{
		"lat": c.Latitude(),
		"lon": c.Longitude(),
	}
	if alt, ok := c.Altitude(); ok {
		result["alt"] = alt
	}
	return result
}
