package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/lib/geo"
)

// Placemark is a named point or line read from a KML document. Shape is a
// geojson.Point for point placemarks and a geojson.Path between the first and
// last positions for line strings.
type Placemark struct {
	Name            string
	DescriptionHTML string
	DescriptionText string
	StyleURL        string
	Data            map[string]string
	Shape           geojson.Shape
}

type xmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	StyleURL    string `xml:"styleUrl"`
	Point       *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
	LineString *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"LineString"`
	ExtendedData struct {
		Data []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:"value"`
		} `xml:"Data"`
		SchemaData []struct {
			SimpleData []struct {
				Name  string `xml:"name,attr"`
				Value string `xml:",chardata"`
			} `xml:"SimpleData"`
		} `xml:"SchemaData"`
	} `xml:"ExtendedData"`
}

// Read returns every point and line placemark in r, at any folder depth.
// Placemarks holding other geometries are skipped.
func Read(r io.Reader, opts ...geo.Option) ([]Placemark, error) {
	dec := xml.NewDecoder(r)
	var placemarks []Placemark
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return placemarks, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse KML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var raw xmlPlacemark
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("failed to parse placemark: %w", err)
		}
		p, ok, err := convertPlacemark(raw, opts)
		if err != nil {
			return nil, fmt.Errorf("placemark %q: %w", raw.Name, err)
		}
		if ok {
			placemarks = append(placemarks, p)
		}
	}
}

func convertPlacemark(raw xmlPlacemark, opts []geo.Option) (Placemark, bool, error) {
	p := Placemark{
		Name:            strings.TrimSpace(raw.Name),
		DescriptionHTML: raw.Description,
		DescriptionText: extractTextFromHTML(raw.Description),
		StyleURL:        strings.TrimSpace(raw.StyleURL),
		Data:            map[string]string{},
	}
	for _, d := range raw.ExtendedData.Data {
		p.Data[d.Name] = strings.TrimSpace(d.Value)
	}
	for _, sd := range raw.ExtendedData.SchemaData {
		for _, d := range sd.SimpleData {
			p.Data[d.Name] = strings.TrimSpace(d.Value)
		}
	}

	switch {
	case raw.Point != nil:
		coords, err := parseCoordinates(raw.Point.Coordinates)
		if err != nil {
			return Placemark{}, false, err
		}
		if len(coords) != 1 {
			return Placemark{}, false, fmt.Errorf("point has %d positions", len(coords))
		}
		p.Shape = geojson.Point{Coordinate: coords[0]}

	case raw.LineString != nil:
		coords, err := parseCoordinates(raw.LineString.Coordinates)
		if err != nil {
			return Placemark{}, false, err
		}
		if len(coords) < 2 {
			return Placemark{}, false, fmt.Errorf("line string has %d positions", len(coords))
		}
		p.Shape = geojson.Path{GreatCircle: geo.NewGreatCircle(coords[0], coords[len(coords)-1], opts...)}

	default:
		return Placemark{}, false, nil
	}
	return p, true, nil
}

// parseCoordinates reads a KML coordinate list: whitespace separated
// "lon,lat[,alt]" tuples.
func parseCoordinates(s string) ([]geo.Coordinate, error) {
	var coords []geo.Coordinate
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("malformed coordinate %q", tuple)
		}
		values := make([]float64, len(parts))
		for i, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed coordinate %q: %w", tuple, err)
			}
			values[i] = v
		}

		var (
			c   geo.Coordinate
			err error
		)
		if len(values) == 3 && values[2] != 0 {
			c, err = geo.NewCoordinateWithAltitude(values[1], values[0], values[2])
		} else {
			c, err = geo.NewCoordinate(values[1], values[0])
		}
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// extractTextFromHTML strips tags and entities from a placemark description
func extractTextFromHTML(content string) string {
	text := htmlTag.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
