package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	orbjson "github.com/paulmach/orb/geojson"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/adapters/kml"
	"github.com/dpup/spherical/internal/cache"
	"github.com/dpup/spherical/internal/config"
	"github.com/dpup/spherical/internal/lib/geo"
)

const (
	ContentTypeGeoJSON  = "application/geo+json"
	ContentTypeKML      = "application/vnd.google-earth.kml+xml"
	ContentTypePolyline = "text/plain; charset=utf-8"
)

// GeometryService implements the gRPC GeometryService
type GeometryService struct {
	UnimplementedGeometryServiceServer
	sphere geo.Sphere
	utils  geo.GeoUtils
	feeds  *kml.FeedParser
	cache  *cache.Cache
	config *config.Config
}

// NewGeometryService creates a GeometryService. c may be nil, in which case
// nothing is cached.
func NewGeometryService(cfg *config.Config, c *cache.Cache) (*GeometryService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sphere, err := cfg.SphereValue()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		c = nil
	}
	return &GeometryService{
		sphere: sphere,
		utils:  geo.NewGeoUtils(geo.WithSphere(sphere)),
		feeds:  kml.NewFeedParser(geo.WithSphere(sphere)),
		cache:  c,
		config: cfg,
	}, nil
}

// Distance returns the great-circle distance between from and to
func (s *GeometryService) Distance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Distance", err)
	}
	from, to, err := s.endpoints(req)
	if err != nil {
		return nil, toStatus(ctx, "Distance", err)
	}
	unit, err := geo.ParseUnit(stringArg(req, "unit", "km"))
	if err != nil {
		return nil, toStatus(ctx, "Distance", err)
	}

	gc := geo.NewGreatCircle(from, to, geo.WithSphere(s.sphere))
	d := gc.Distance()
	return newStruct(map[string]any{
		"meters":              d.InMeters(),
		"kilometers":          d.InKilometers(),
		"miles":               d.InMiles(),
		"nauticalMiles":       d.InNauticalMiles(),
		"centralAngleDegrees": gc.CentralAngle().Degrees(),
		"unit":                string(unit),
		"formatted":           d.Format(unit),
	})
}

// Bearing returns the initial, final and arrival bearings from from to to,
// plus the back azimuth from to towards from
func (s *GeometryService) Bearing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Bearing", err)
	}
	from, to, err := s.endpoints(req)
	if err != nil {
		return nil, toStatus(ctx, "Bearing", err)
	}

	b := geo.NewBearing(from, to)
	return newStruct(map[string]any{
		"initial": b.Initial().Degrees(),
		"final":   b.Final().Degrees(),
		"arrival": b.Arrival().Degrees(),
		"back":    geo.NewAzimuth(to, from).Forward().Degrees(),
	})
}

// Interpolate returns the point at fraction along the geodesic from from to to
func (s *GeometryService) Interpolate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Interpolate", err)
	}
	from, to, err := s.endpoints(req)
	if err != nil {
		return nil, toStatus(ctx, "Interpolate", err)
	}
	fraction, err := requiredNumber(req, "fraction")
	if err != nil {
		return nil, toStatus(ctx, "Interpolate", err)
	}

	gc := geo.NewGreatCircle(from, to, geo.WithSphere(s.sphere))
	p, err := gc.Interpolate(fraction)
	if err != nil {
		return nil, toStatus(ctx, "Interpolate", err)
	}
	result := coordinateResult(p)
	result["distanceFromStartMeters"] = gc.Distance().InMeters() * fraction
	return newStruct(result)
}

// CrossTrack measures point against the great circle through from and to
func (s *GeometryService) CrossTrack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}
	from, to, err := s.endpoints(req)
	if err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}
	point, err := coordinateArg(req, "point")
	if err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}

	gc := geo.NewGreatCircle(from, to, geo.WithSphere(s.sphere))
	xt, err := gc.CrossTrackDistance(point)
	if err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}
	at, err := gc.AlongTrackDistance(point)
	if err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}
	result := map[string]any{
		"crossTrackMeters": xt.InMeters(),
		"alongTrackMeters": at.InMeters(),
	}

	withinKm, ok, err := numberArg(req, "withinKm")
	if err != nil {
		return nil, toStatus(ctx, "CrossTrack", err)
	}
	if ok {
		limit, err := geo.Kilometers(withinKm)
		if err != nil {
			return nil, toStatus(ctx, "CrossTrack", err)
		}
		within, err := gc.IsWithinDistance(point, limit)
		if err != nil {
			return nil, toStatus(ctx, "CrossTrack", err)
		}
		result["within"] = within
	}
	return newStruct(result)
}

// Centroid returns the spherical centroid of points
func (s *GeometryService) Centroid(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Centroid", err)
	}
	points, err := coordinatesArg(req, "points")
	if err != nil {
		return nil, toStatus(ctx, "Centroid", err)
	}
	c, err := s.utils.Centroid(points)
	if err != nil {
		return nil, toStatus(ctx, "Centroid", err)
	}
	return newStruct(coordinateResult(c))
}

// Area returns the area enclosed by a ring of points
func (s *GeometryService) Area(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Area", err)
	}
	points, err := coordinatesArg(req, "points")
	if err != nil {
		return nil, toStatus(ctx, "Area", err)
	}
	area, err := s.utils.RingArea(points)
	if err != nil {
		return nil, toStatus(ctx, "Area", err)
	}
	length, err := s.utils.PolylineLength(geo.Polyline{Points: append(points, points[0])})
	if err != nil {
		return nil, toStatus(ctx, "Area", err)
	}
	return newStruct(map[string]any{
		"squareMeters":     area,
		"squareKilometers": area / 1e6,
		"perimeterMeters":  length.InMeters(),
	})
}

// Path renders the geodesic between from and to, optionally extended past to
func (s *GeometryService) Path(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Path", err)
	}
	body, err := s.cached(ctx, geojson.KindGreatCircle, req, func() (*httpbody.HttpBody, error) {
		from, to, err := s.endpoints(req)
		if err != nil {
			return nil, err
		}
		opts, err := s.pathOptions(req)
		if err != nil {
			return nil, err
		}

		gc := geo.NewGreatCircle(from, to, geo.WithSphere(s.sphere))
		extendKm, ok, err := numberArg(req, "extendKm")
		if err != nil {
			return nil, err
		}
		if ok {
			d, err := geo.Kilometers(extendKm)
			if err != nil {
				return nil, err
			}
			if gc, err = gc.Extend(d); err != nil {
				return nil, err
			}
		}

		format := stringArg(req, "format", "geojson")
		if format == "polyline" {
			points, err := gc.GeneratePoints(opts)
			if err != nil {
				return nil, err
			}
			return &httpbody.HttpBody{
				ContentType: ContentTypePolyline,
				Data:        []byte(s.utils.EncodePolyline(points)),
			}, nil
		}
		return s.render(format, "Great circle path", opts, s.config.Sampling.CircleSegments, geojson.Path{GreatCircle: gc})
	})
	if err != nil {
		return nil, toStatus(ctx, "Path", err)
	}
	return body, nil
}

// Circle renders the small circle of radiusKm around center
func (s *GeometryService) Circle(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Circle", err)
	}
	body, err := s.cached(ctx, geojson.KindSmallCircle, req, func() (*httpbody.HttpBody, error) {
		center, err := coordinateArg(req, "center")
		if err != nil {
			return nil, err
		}
		radius, err := kilometersArg(req, "radiusKm")
		if err != nil {
			return nil, err
		}
		segments, ok, err := intArg(req, "segments")
		if err != nil {
			return nil, err
		}
		if !ok {
			segments = s.config.Sampling.CircleSegments
		}
		if segments < 3 {
			return nil, requestError("segments", "must be at least 3, got %d", segments)
		}

		circle, err := geo.NewSmallCircle(center, radius, geo.WithSphere(s.sphere))
		if err != nil {
			return nil, err
		}
		return s.render(stringArg(req, "format", "geojson"), "Small circle", s.config.PathOptions(), segments, geojson.Circle{SmallCircle: circle})
	})
	if err != nil {
		return nil, toStatus(ctx, "Circle", err)
	}
	return body, nil
}

// Triangle solves and renders a spherical triangle. The construction field
// selects how it is defined: vertices, sss, sas, aas or asa.
func (s *GeometryService) Triangle(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Triangle", err)
	}
	body, err := s.cached(ctx, geojson.KindTriangle, req, func() (*httpbody.HttpBody, error) {
		tri, err := s.solveTriangle(req)
		if err != nil {
			return nil, err
		}
		return s.render(stringArg(req, "format", "geojson"), "Spherical triangle", s.config.PathOptions(), s.config.Sampling.CircleSegments, geojson.Triangle{Triangle: tri})
	})
	if err != nil {
		return nil, toStatus(ctx, "Triangle", err)
	}
	return body, nil
}

func (s *GeometryService) solveTriangle(req *structpb.Struct) (geo.Triangle, error) {
	opt := geo.WithSphere(s.sphere)
	construction := "vertices"
	if _, ok := field(req, "vertices"); !ok {
		construction = ""
	}
	construction = strings.ToLower(stringArg(req, "construction", construction))

	switch construction {
	case "vertices":
		vertices, err := coordinatesArg(req, "vertices")
		if err != nil {
			return geo.Triangle{}, err
		}
		if len(vertices) != 3 {
			return geo.Triangle{}, requestError("vertices", "needs exactly 3 coordinates, got %d", len(vertices))
		}
		return geo.TriangleFromVertices(vertices[0], vertices[1], vertices[2], opt)

	case "sss":
		a, b, c, err := sides(req, "sideAKm", "sideBKm", "sideCKm")
		if err != nil {
			return geo.Triangle{}, err
		}
		return geo.TriangleFromSSS(a, b, c, opt)

	case "sas":
		a, b, err := twoSides(req, "sideAKm", "sideBKm")
		if err != nil {
			return geo.Triangle{}, err
		}
		angleC, err := degreesArg(req, "angleC")
		if err != nil {
			return geo.Triangle{}, err
		}
		return geo.TriangleFromSAS(a, angleC, b, opt)

	case "aas":
		angleA, err := degreesArg(req, "angleA")
		if err != nil {
			return geo.Triangle{}, err
		}
		angleB, err := degreesArg(req, "angleB")
		if err != nil {
			return geo.Triangle{}, err
		}
		c, err := kilometersArg(req, "sideCKm")
		if err != nil {
			return geo.Triangle{}, err
		}
		return geo.TriangleFromAAS(angleA, angleB, c, opt)

	case "asa":
		angleA, err := degreesArg(req, "angleA")
		if err != nil {
			return geo.Triangle{}, err
		}
		b, err := kilometersArg(req, "sideBKm")
		if err != nil {
			return geo.Triangle{}, err
		}
		angleC, err := degreesArg(req, "angleC")
		if err != nil {
			return geo.Triangle{}, err
		}
		return geo.TriangleFromASA(angleA, b, angleC, opt)

	case "":
		return geo.Triangle{}, requestError("construction", "is required when vertices are not given")
	}
	return geo.Triangle{}, requestError("construction", "unknown construction %q, expected vertices, sss, sas, aas or asa", construction)
}

// feedQuery narrows a feed to the placemarks within limit of near
type feedQuery struct {
	near   geo.Coordinate
	limit  geo.Distance
	filter bool
	format string
}

// Feed renders the placemarks of a configured KML feed, optionally limited to
// those within withinKm of near. When the feed cannot be fetched a stale
// render is served until it is very stale.
func (s *GeometryService) Feed(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(ctx, "Feed", err)
	}
	id := stringArg(req, "feed", "")
	log.Printf("Feed called for feed ID: %s", id)

	feed, ok := s.config.Feed(id)
	if !ok {
		return nil, toStatus(ctx, "Feed", fmt.Errorf("%w: %q", errFeedNotFound, id))
	}
	query, err := parseFeedQuery(req)
	if err != nil {
		return nil, toStatus(ctx, "Feed", err)
	}
	key, err := renderKey("feed", req)
	if err != nil {
		return nil, toStatus(ctx, "Feed", err)
	}

	if s.cache != nil {
		if doc, found := s.cache.Get(key); found {
			log.Printf("Returning cached feed %s", id)
			return &httpbody.HttpBody{ContentType: doc.ContentType, Data: doc.Body}, nil
		}
	}

	body, err := s.fetchFeed(ctx, feed, query, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, toStatus(ctx, "Feed", ctx.Err())
		}
		if s.cache != nil && !s.cache.IsVeryStale(key) {
			if entry, found := s.cache.GetWithMetadata(key); found {
				log.Printf("Refresh failed, returning stale feed %s: %v", id, err)
				return &httpbody.HttpBody{ContentType: entry.Document.ContentType, Data: entry.Document.Body}, nil
			}
		}
		return nil, toStatus(ctx, "Feed", err)
	}
	return body, nil
}

// refreshFeed fetches and caches the default render of a feed, ignoring any
// cached copy
func (s *GeometryService) refreshFeed(ctx context.Context, id string) error {
	feed, ok := s.config.Feed(id)
	if !ok {
		return fmt.Errorf("%w: %q", errFeedNotFound, id)
	}
	req := feedRequest(id)
	query, err := parseFeedQuery(req)
	if err != nil {
		return err
	}
	key, err := renderKey("feed", req)
	if err != nil {
		return err
	}
	_, err = s.fetchFeed(ctx, feed, query, key)
	return err
}

// fetchFeed downloads a feed, renders it for query and stores the render under key
func (s *GeometryService) fetchFeed(ctx context.Context, feed config.FeedConfig, query feedQuery, key string) (*httpbody.HttpBody, error) {
	placemarks, err := s.feeds.FetchPlacemarks(ctx, feed.URL)
	if err != nil {
		log.Printf("Failed to refresh feed %s: %v", feed.ID, err)
		return nil, status.Errorf(codes.Unavailable, "failed to refresh feed %s: %v", feed.ID, err)
	}

	body, err := s.renderFeed(feed, placemarks, query)
	if err != nil {
		return nil, err
	}
	s.store(key, "feed", body)
	return body, nil
}

// feedRequest is the request for the unfiltered render of a feed
func feedRequest(id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"feed": structpb.NewStringValue(id),
	}}
}

func parseFeedQuery(req *structpb.Struct) (feedQuery, error) {
	q := feedQuery{format: stringArg(req, "format", "geojson")}
	if q.format != "geojson" && q.format != "kml" {
		return q, requestError("format", "unsupported format %q, expected geojson or kml", q.format)
	}

	withinKm, ok, err := numberArg(req, "withinKm")
	if err != nil || !ok {
		return q, err
	}
	if q.near, err = coordinateArg(req, "near"); err != nil {
		return q, err
	}
	if q.limit, err = geo.Kilometers(withinKm); err != nil {
		return q, err
	}
	q.filter = true
	return q, nil
}

func (s *GeometryService) renderFeed(feed config.FeedConfig, placemarks []kml.Placemark, q feedQuery) (*httpbody.HttpBody, error) {
	var kept []kml.Placemark
	for _, p := range placemarks {
		if q.filter {
			d, err := s.placemarkDistance(q.near, p)
			if err != nil || d.InMeters() > q.limit.InMeters() {
				continue
			}
		}
		kept = append(kept, p)
	}
	log.Printf("Feed %s: %d of %d placemark(s) selected", feed.ID, len(kept), len(placemarks))

	if q.format == "kml" {
		shapes := make([]geojson.Shape, len(kept))
		for i, p := range kept {
			shapes[i] = p.Shape
		}
		return s.render(q.format, feed.Name, s.config.PathOptions(), s.config.Sampling.CircleSegments, shapes...)
	}

	converter := s.converter(s.config.PathOptions(), s.config.Sampling.CircleSegments)
	fc := orbjson.NewFeatureCollection()
	for _, p := range kept {
		f, err := converter.ToFeature(p.Shape)
		if err != nil {
			return nil, err
		}
		f.Properties["name"] = p.Name
		f.Properties["description"] = p.DescriptionText
		if len(p.Data) > 0 {
			f.Properties["data"] = p.Data
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}
	return &httpbody.HttpBody{ContentType: ContentTypeGeoJSON, Data: data}, nil
}

// placemarkDistance measures from c to a point placemark, or to the nearest
// point of a line placemark
func (s *GeometryService) placemarkDistance(c geo.Coordinate, p kml.Placemark) (geo.Distance, error) {
	switch shape := p.Shape.(type) {
	case geojson.Point:
		return s.utils.PointToPoint(c, shape.Coordinate), nil
	case geojson.Path:
		return s.utils.PointToPolyline(c, geo.Polyline{Points: []geo.Coordinate{shape.Start(), shape.End()}})
	}
	return geo.Distance{}, fmt.Errorf("placemark %q has no measurable shape", p.Name)
}

func (s *GeometryService) endpoints(req *structpb.Struct) (geo.Coordinate, geo.Coordinate, error) {
	from, err := coordinateArg(req, "from")
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	to, err := coordinateArg(req, "to")
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	return from, to, nil
}

// pathOptions reads points, spacingKm and maxPoints. The configured maximum
// caps whatever the request asks for.
func (s *GeometryService) pathOptions(req *structpb.Struct) (geo.PointOptions, error) {
	opts := s.config.PathOptions()

	if n, ok, err := intArg(req, "points"); err != nil {
		return opts, err
	} else if ok {
		if n < 1 {
			return opts, requestError("points", "must be positive, got %d", n)
		}
		opts.MinPoints = n
	}
	if km, ok, err := numberArg(req, "spacingKm"); err != nil {
		return opts, err
	} else if ok {
		if km <= 0 {
			return opts, requestError("spacingKm", "must be positive, got %g", km)
		}
		spacing, err := geo.Kilometers(km)
		if err != nil {
			return opts, err
		}
		opts.Spacing = spacing
	}
	if n, ok, err := intArg(req, "maxPoints"); err != nil {
		return opts, err
	} else if ok {
		if n < 1 {
			return opts, requestError("maxPoints", "must be positive, got %d", n)
		}
		if opts.MaxPoints == 0 || n < opts.MaxPoints {
			opts.MaxPoints = n
		}
	}
	if opts.MaxPoints > 0 && opts.MinPoints > opts.MaxPoints {
		opts.MinPoints = opts.MaxPoints
	}
	return opts, nil
}

func (s *GeometryService) converter(pathOpts geo.PointOptions, segments int) *geojson.Converter {
	return geojson.NewConverter(
		geojson.WithPathPoints(pathOpts),
		geojson.WithCircleSegments(segments),
		geojson.WithSphere(s.sphere),
	)
}

// render encodes shapes as a GeoJSON feature collection or a KML document
func (s *GeometryService) render(format, name string, pathOpts geo.PointOptions, segments int, shapes ...geojson.Shape) (*httpbody.HttpBody, error) {
	switch format {
	case "geojson":
		data, err := s.converter(pathOpts, segments).Marshal(shapes...)
		if err != nil {
			return nil, err
		}
		return &httpbody.HttpBody{ContentType: ContentTypeGeoJSON, Data: data}, nil

	case "kml":
		var buf bytes.Buffer
		w := kml.Writer{PathPoints: pathOpts, CircleSegments: segments}
		if err := w.Write(&buf, name, shapes...); err != nil {
			return nil, err
		}
		return &httpbody.HttpBody{ContentType: ContentTypeKML, Data: buf.Bytes()}, nil
	}
	return nil, requestError("format", "unsupported format %q, expected geojson or kml", format)
}

// cached serves a fresh render of req from the cache, or builds and stores one
func (s *GeometryService) cached(ctx context.Context, kind geojson.Kind, req *structpb.Struct, build func() (*httpbody.HttpBody, error)) (*httpbody.HttpBody, error) {
	if s.cache == nil {
		return build()
	}
	key, err := renderKey(string(kind), req)
	if err != nil {
		return nil, err
	}
	if doc, found := s.cache.Get(key); found {
		return &httpbody.HttpBody{ContentType: doc.ContentType, Data: doc.Body}, nil
	}

	body, err := build()
	if err != nil {
		return nil, err
	}
	if ctx.Err() == nil {
		s.store(key, string(kind), body)
	}
	return body, nil
}

func (s *GeometryService) store(key, source string, body *httpbody.HttpBody) {
	if s.cache == nil {
		return
	}
	doc := cache.Document{ContentType: body.GetContentType(), Body: body.GetData()}
	if err := s.cache.Set(key, doc, s.config.Cache.TTL, source); err != nil {
		log.Printf("Failed to cache %s render: %v", source, err)
	}
}

// renderKey derives a cache key from the request. Struct fields are encoded
// deterministically so equal requests share a key.
func renderKey(kind string, req *structpb.Struct) (string, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return cache.Key(kind, string(data)), nil
}

func sides(req *structpb.Struct, a, b, c string) (geo.Distance, geo.Distance, geo.Distance, error) {
	sa, sb, err := twoSides(req, a, b)
	if err != nil {
		return geo.Distance{}, geo.Distance{}, geo.Distance{}, err
	}
	sc, err := kilometersArg(req, c)
	if err != nil {
		return geo.Distance{}, geo.Distance{}, geo.Distance{}, err
	}
	return sa, sb, sc, nil
}

func twoSides(req *structpb.Struct, a, b string) (geo.Distance, geo.Distance, error) {
	sa, err := kilometersArg(req, a)
	if err != nil {
		return geo.Distance{}, geo.Distance{}, err
	}
	sb, err := kilometersArg(req, b)
	if err != nil {
		return geo.Distance{}, geo.Distance{}, err
	}
	return sa, sb, nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build response: %w", err)
	}
	return st, nil
}
