package main

import (
	"fmt"
	"strings"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/adapters/kml"
	"github.com/dpup/spherical/internal/lib/geo"
)

func runDistance(env *environment, args []string) error {
	fs := env.flags()
	from := fs.String("from", "", "Start point as lat,lon")
	to := fs.String("to", "", "End point as lat,lon")
	unitName := fs.String("unit", "km", "Output unit: m, km, mi, nm, ft or yd")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	gc, err := greatCircle(env, *from, *to)
	if err != nil {
		return err
	}
	unit, err := geo.ParseUnit(*unitName)
	if err != nil {
		return err
	}

	d := gc.Distance()
	fmt.Fprintf(env.stdout, "Distance between points:\n")
	fmt.Fprintf(env.stdout, "  Point 1: %s\n", gc.Start())
	fmt.Fprintf(env.stdout, "  Point 2: %s\n", gc.End())
	fmt.Fprintf(env.stdout, "  Distance: %s (%.2f m, %.2f km, %.2f miles)\n",
		d.Format(unit), d.InMeters(), d.InKilometers(), d.InMiles())
	fmt.Fprintf(env.stdout, "  Central angle: %.6f°\n", gc.CentralAngle().Degrees())
	return nil
}

func runBearing(env *environment, args []string) error {
	fs := env.flags()
	from := fs.String("from", "", "Start point as lat,lon")
	to := fs.String("to", "", "End point as lat,lon")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	gc, err := greatCircle(env, *from, *to)
	if err != nil {
		return err
	}
	b := geo.NewBearing(gc.Start(), gc.End())
	fmt.Fprintf(env.stdout, "Bearings from %s to %s:\n", gc.Start(), gc.End())
	fmt.Fprintf(env.stdout, "  Initial: %s\n", b.Initial())
	fmt.Fprintf(env.stdout, "  Final:   %s\n", b.Final())
	fmt.Fprintf(env.stdout, "  Arrival: %s\n", b.Arrival())
	return nil
}

func runInterpolate(env *environment, args []string) error {
	fs := env.flags()
	from := fs.String("from", "", "Start point as lat,lon")
	to := fs.String("to", "", "End point as lat,lon")
	fraction := fs.Float64("fraction", 0.5, "Fraction of the way from start to end, 0 to 1")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	gc, err := greatCircle(env, *from, *to)
	if err != nil {
		return err
	}
	p, err := gc.Interpolate(*fraction)
	if err != nil {
		return err
	}
	return env.write("Interpolated point", geojson.Point{Coordinate: p}, func() {
		fmt.Fprintf(env.stdout, "Point at %.4f of %s: %s\n", *fraction, gc, p)
	})
}

func runPath(env *environment, args []string) error {
	fs := env.flags()
	from := fs.String("from", "", "Start point as lat,lon")
	to := fs.String("to", "", "End point as lat,lon")
	points := fs.Int("points", 0, "Number of segments (default from config)")
	spacingKm := fs.Float64("spacing-km", 0, "Segment length in kilometers, overrides -points")
	extendKm := fs.Float64("extend-km", 0, "Extend the path past its end by this many kilometers")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	gc, err := greatCircle(env, *from, *to)
	if err != nil {
		return err
	}
	if *extendKm != 0 {
		d, err := geo.Kilometers(*extendKm)
		if err != nil {
			return err
		}
		if gc, err = gc.Extend(d); err != nil {
			return err
		}
	}

	opts := env.config.PathOptions()
	if *points > 0 {
		opts.MinPoints = *points
	}
	if *spacingKm > 0 {
		if opts.Spacing, err = geo.Kilometers(*spacingKm); err != nil {
			return err
		}
	}
	sampled, err := gc.GeneratePoints(opts)
	if err != nil {
		return err
	}

	if *env.format == "polyline" {
		fmt.Fprintln(env.stdout, geo.NewGeoUtils(env.geoOption()).EncodePolyline(sampled))
		return nil
	}
	return env.writeWith("Great circle path", opts, geojson.Path{GreatCircle: gc}, func() {
		fmt.Fprintf(env.stdout, "%s\n", gc)
		fmt.Fprintf(env.stdout, "  Distance: %s\n", gc.Distance())
		fmt.Fprintf(env.stdout, "  Initial bearing: %s, final bearing: %s\n", gc.InitialBearing(), gc.FinalBearing())
		fmt.Fprintf(env.stdout, "  Points (%d):\n", len(sampled))
		for i, p := range sampled {
			fmt.Fprintf(env.stdout, "    %d: %s\n", i, p)
		}
	})
}

func runCircle(env *environment, args []string) error {
	fs := env.flags()
	centerFlag := fs.String("center", "", "Center as lat,lon")
	radiusKm := fs.Float64("radius", 0, "Circle radius in kilometers")
	segments := fs.Int("segments", 0, "Number of vertices (default from config)")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	center, err := parseCoordinate("center", *centerFlag)
	if err != nil {
		return err
	}
	radius, err := geo.Kilometers(*radiusKm)
	if err != nil {
		return err
	}
	circle, err := geo.NewSmallCircle(center, radius, env.geoOption())
	if err != nil {
		return err
	}
	n := env.config.Sampling.CircleSegments
	if *segments > 0 {
		n = *segments
	}
	env.config.Sampling.CircleSegments = n

	return env.write("Small circle", geojson.Circle{SmallCircle: circle}, func() {
		fmt.Fprintf(env.stdout, "%s\n", circle)
		fmt.Fprintf(env.stdout, "  Angular radius: %s\n", circle.AngularRadius())
		fmt.Fprintf(env.stdout, "  Circumference: %s\n", circle.Circumference())
		fmt.Fprintf(env.stdout, "  Area: %.3f km²\n", circle.AreaKm2())
	})
}

func runTriangle(env *environment, args []string) error {
	fs := env.flags()
	construction := fs.String("construction", "vertices", "How the triangle is given: vertices, sss, sas, aas or asa")
	vertices := fs.String("vertices", "", "Three vertices as lat,lon;lat,lon;lat,lon")
	sideA := fs.Float64("side-a", 0, "Side a in kilometers")
	sideB := fs.Float64("side-b", 0, "Side b in kilometers")
	sideC := fs.Float64("side-c", 0, "Side c in kilometers")
	angleA := fs.Float64("angle-a", 0, "Angle A in degrees")
	angleB := fs.Float64("angle-b", 0, "Angle B in degrees")
	angleC := fs.Float64("angle-c", 0, "Angle C in degrees")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	opt := env.geoOption()
	var (
		tri geo.Triangle
		err error
	)
	switch strings.ToLower(*construction) {
	case "vertices":
		coords, perr := parseCoordinates("vertices", *vertices)
		if perr != nil {
			return perr
		}
		if len(coords) != 3 {
			return fmt.Errorf("-vertices needs exactly 3 points, got %d", len(coords))
		}
		tri, err = geo.TriangleFromVertices(coords[0], coords[1], coords[2], opt)
	case "sss":
		sides, serr := kilometers(*sideA, *sideB, *sideC)
		if serr != nil {
			return serr
		}
		tri, err = geo.TriangleFromSSS(sides[0], sides[1], sides[2], opt)
	case "sas":
		sides, serr := kilometers(*sideA, *sideB)
		if serr != nil {
			return serr
		}
		tri, err = geo.TriangleFromSAS(sides[0], geo.NewAngle(*angleC), sides[1], opt)
	case "aas":
		sides, serr := kilometers(*sideC)
		if serr != nil {
			return serr
		}
		tri, err = geo.TriangleFromAAS(geo.NewAngle(*angleA), geo.NewAngle(*angleB), sides[0], opt)
	case "asa":
		sides, serr := kilometers(*sideB)
		if serr != nil {
			return serr
		}
		tri, err = geo.TriangleFromASA(geo.NewAngle(*angleA), sides[0], geo.NewAngle(*angleC), opt)
	default:
		return fmt.Errorf("unknown construction %q, expected vertices, sss, sas, aas or asa", *construction)
	}
	if err != nil {
		return err
	}

	return env.write("Spherical triangle", geojson.Triangle{Triangle: tri}, func() {
		sides := tri.Sides()
		angles := tri.Angles()
		fmt.Fprintf(env.stdout, "%s\n", tri)
		fmt.Fprintf(env.stdout, "  Sides:  a=%s b=%s c=%s\n", sides[0], sides[1], sides[2])
		fmt.Fprintf(env.stdout, "  Angles: A=%s B=%s C=%s\n", angles[0], angles[1], angles[2])
		fmt.Fprintf(env.stdout, "  Spherical excess: %s\n", tri.SphericalExcess())
		fmt.Fprintf(env.stdout, "  Perimeter: %s\n", tri.Perimeter())
		fmt.Fprintf(env.stdout, "  Area: %.3f km²\n", tri.AreaKm2())
	})
}

func runDecodePolyline(env *environment, args []string) error {
	fs := env.flags()
	encoded := fs.String("polyline", "", "Encoded polyline string")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	utils := geo.NewGeoUtils(env.geoOption())
	points, err := utils.DecodePolyline(*encoded)
	if err != nil {
		return err
	}
	length, err := utils.PolylineLength(geo.Polyline{Points: points})
	if err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "Decoded polyline (%d points):\n", len(points))
	for i, p := range points {
		fmt.Fprintf(env.stdout, "  %d: %s\n", i, p)
	}
	fmt.Fprintf(env.stdout, "Total length: %s\n", length)
	return nil
}

func greatCircle(env *environment, from, to string) (geo.GreatCircle, error) {
	start, err := parseCoordinate("from", from)
	if err != nil {
		return geo.GreatCircle{}, err
	}
	end, err := parseCoordinate("to", to)
	if err != nil {
		return geo.GreatCircle{}, err
	}
	return geo.NewGreatCircle(start, end, env.geoOption()), nil
}

func kilometers(values ...float64) ([]geo.Distance, error) {
	out := make([]geo.Distance, len(values))
	for i, v := range values {
		d, err := geo.Kilometers(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// write prints shape in the selected format, calling text for -format text
func (e *environment) write(name string, shape geojson.Shape, text func()) error {
	return e.writeWith(name, e.config.PathOptions(), shape, text)
}

func (e *environment) writeWith(name string, pathOpts geo.PointOptions, shape geojson.Shape, text func()) error {
	switch *e.format {
	case "text":
		text()
		return nil
	case "geojson":
		converter := geojson.NewConverter(
			geojson.WithPathPoints(pathOpts),
			geojson.WithCircleSegments(e.config.Sampling.CircleSegments),
			geojson.WithSphere(e.sphere),
		)
		data, err := converter.Marshal(shape)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, string(data))
		return nil
	case "kml":
		w := kml.Writer{PathPoints: pathOpts, CircleSegments: e.config.Sampling.CircleSegments}
		return w.Write(e.stdout, name, shape)
	}
	return fmt.Errorf("unsupported format %q for %s", *e.format, e.name)
}
