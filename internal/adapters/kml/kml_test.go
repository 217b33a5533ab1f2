package kml

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokml "github.com/twpayne/go-kml"
	"github.com/twpayne/go-kml/sphere"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/lib/geo"
)

var (
	angelsCamp = geo.MustCoordinate(38.0675, -120.5436)
	murphys    = geo.MustCoordinate(38.1371, -120.4652)
	arnold     = geo.MustCoordinate(38.2557, -120.3510)
)

const chainControlFeed = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Chain Controls</name>
    <Folder>
      <name>SR-4</name>
      <Placemark>
        <name>SR-4 at Arnold</name>
        <styleUrl>#cc</styleUrl>
        <description><![CDATA[<b>R-1</b>&nbsp;chains required<br/>until further notice]]></description>
        <ExtendedData>
          <Data name="route"><value>SR-4</value></Data>
        </ExtendedData>
        <Point><coordinates>-120.3510,38.2557,0</coordinates></Point>
      </Placemark>
    </Folder>
    <Placemark>
      <name>Ebbetts Pass</name>
      <LineString>
        <coordinates>
          -120.3510,38.2557 -120.1450,38.4900 -119.8129,38.5447
        </coordinates>
      </LineString>
    </Placemark>
    <Placemark>
      <name>Closure area</name>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>0,0 1,0 1,1 0,0</coordinates></LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
  </Document>
</kml>`

func TestRead_Feed(t *testing.T) {
	placemarks, err := Read(strings.NewReader(chainControlFeed))
	require.NoError(t, err)
	require.Len(t, placemarks, 2, "polygon placemarks are skipped")

	first := placemarks[0]
	assert.Equal(t, "SR-4 at Arnold", first.Name)
	assert.Equal(t, "#cc", first.StyleURL)
	assert.Equal(t, "R-1 chains required until further notice", first.DescriptionText)
	assert.Equal(t, "SR-4", first.Data["route"])

	point, ok := first.Shape.(geojson.Point)
	require.True(t, ok)
	assert.True(t, point.Equal(arnold), "zero altitude is treated as absent")

	path, ok := placemarks[1].Shape.(geojson.Path)
	require.True(t, ok)
	assert.True(t, path.Start().Equal(arnold))
	assert.InDelta(t, -119.8129, path.End().Longitude(), 1e-9)
}

func TestRead_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed xml":      `<kml><Document><Placemark>`,
		"bad number":         `<kml><Placemark><Point><coordinates>abc,1</coordinates></Point></Placemark></kml>`,
		"too many fields":    `<kml><Placemark><Point><coordinates>1,2,3,4</coordinates></Point></Placemark></kml>`,
		"latitude too large": `<kml><Placemark><Point><coordinates>0,91</coordinates></Point></Placemark></kml>`,
		"short line":         `<kml><Placemark><LineString><coordinates>0,1</coordinates></LineString></Placemark></kml>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	_, err := Read(strings.NewReader(tests["latitude too large"]))
	assert.ErrorIs(t, err, geo.ErrValidation)
}

func TestWrite_RoundTrip(t *testing.T) {
	circle, err := geo.NewSmallCircle(murphys, geo.MustDistance(geo.Kilometers(5)))
	require.NoError(t, err)
	tri, err := geo.TriangleFromVertices(angelsCamp, murphys, arnold)
	require.NoError(t, err)
	gc := geo.NewGreatCircle(angelsCamp, arnold)

	var buf bytes.Buffer
	err = Write(&buf, "Calaveras",
		geojson.Point{Coordinate: angelsCamp},
		geojson.Path{GreatCircle: gc},
		geojson.Circle{SmallCircle: circle},
		geojson.Triangle{Triangle: tri},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<kml xmlns="http://www.opengis.net/kml/2.2">`)
	assert.Contains(t, out, "<name>Calaveras</name>")
	assert.Equal(t, 2, strings.Count(out, "<Polygon>"))
	assert.Contains(t, out, `<SimpleData name="type">smallCircle</SimpleData>`)
	assert.Contains(t, out, `<SimpleData name="radius">5000</SimpleData>`)

	placemarks, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, placemarks, 2)

	assert.Equal(t, "coordinate", placemarks[0].Data["type"])
	assert.True(t, placemarks[0].Shape.(geojson.Point).Equal(angelsCamp))

	assert.Equal(t, "greatCircle", placemarks[1].Data["type"])
	distance, err := strconv.ParseFloat(placemarks[1].Data["distance"], 64)
	require.NoError(t, err)
	assert.Equal(t, gc.Distance().InMeters(), distance)
	assert.InDelta(t, gc.Distance().InMeters(), placemarks[1].Shape.(geojson.Path).Distance().InMeters(), 1e-6)
}

func TestWrite_Unsupported(t *testing.T) {
	err := Write(&bytes.Buffer{}, "empty", nil)
	var convErr *geojson.ConversionError
	assert.ErrorAs(t, err, &convErr)
}

func TestCircleVerticesMatchKMLSphere(t *testing.T) {
	radius := 5000.0
	circle, err := geo.NewSmallCircle(murphys, geo.MustDistance(geo.Meters(radius)))
	require.NoError(t, err)

	points, err := circle.GeneratePoints(8)
	require.NoError(t, err)

	center := gokml.Coordinate{Lon: murphys.Longitude(), Lat: murphys.Latitude()}
	for i, p := range points {
		want := sphere.FAI.Offset(center, radius, 360*float64(i)/8)
		assert.InDelta(t, want.Lat, p.Latitude(), 1e-9)
		assert.InDelta(t, want.Lon, p.Longitude(), 1e-9)
		assert.InDelta(t, radius, sphere.FAI.HaversineDistance(center, toKML(p)), 1e-6)
	}
}

func TestFeedParser_FetchPlacemarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/cc.kml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		_, _ = w.Write([]byte(chainControlFeed))
	}))
	defer srv.Close()

	parser := NewFeedParser()
	placemarks, err := parser.FetchPlacemarks(context.Background(), srv.URL+"/data/cc.kml")
	require.NoError(t, err)
	assert.Len(t, placemarks, 2)

	_, err = parser.FetchPlacemarks(context.Background(), srv.URL+"/missing.kml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error 404")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = parser.FetchPlacemarks(ctx, srv.URL+"/data/cc.kml")
	assert.ErrorIs(t, err, context.Canceled)
}
