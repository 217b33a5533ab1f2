package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/peterbourgon/ff"

	"github.com/dpup/spherical/internal/config"
	"github.com/dpup/spherical/internal/lib/geo"
)

const envPrefix = "SPHERECALC"

// environment carries what every command needs once its flags are parsed
type environment struct {
	name   string
	stdout io.Writer
	stderr io.Writer

	configPath *string
	radiusKm   *float64
	format     *string

	config *config.Config
	sphere geo.Sphere
}

// flags returns a flag set holding the options shared by every command
func (e *environment) flags() *flag.FlagSet {
	fs := flag.NewFlagSet(e.name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	e.configPath = fs.String("config", "", "YAML config file")
	e.radiusKm = fs.Float64("radius-km", 0, "Sphere radius in kilometers (default from config)")
	e.format = fs.String("format", "text", "Output format: text, geojson, kml or polyline")
	return fs
}

// parse reads args and SPHERECALC_* environment variables into fs, then
// loads the config they point at
func (e *environment) parse(fs *flag.FlagSet, args []string) error {
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(envPrefix)); err != nil {
		return err
	}

	cfg, err := loadConfig(*e.configPath, *e.radiusKm)
	if err != nil {
		return err
	}
	sphere, err := cfg.SphereValue()
	if err != nil {
		return err
	}
	e.config = cfg
	e.sphere = sphere
	return nil
}

// loadConfig layers an optional YAML file and a radius override over the defaults
func loadConfig(path string, radiusKm float64) (*config.Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	if radiusKm != 0 {
		if err := k.Load(confmap.Provider(map[string]interface{}{"sphere.radius_km": radiusKm}, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply radius override: %w", err)
		}
	}

	cfg := config.DefaultConfig()
	if k.Exists("feeds") {
		cfg.Feeds = nil
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *environment) geoOption() geo.Option {
	return geo.WithSphere(e.sphere)
}

// parseCoordinate reads "lat,lon"
func parseCoordinate(flagName, s string) (geo.Coordinate, error) {
	if s == "" {
		return geo.Coordinate{}, fmt.Errorf("-%s is required", flagName)
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("-%s must be \"lat,lon\", got %q", flagName, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("-%s latitude: %w", flagName, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("-%s longitude: %w", flagName, err)
	}
	c, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("-%s: %w", flagName, err)
	}
	return c, nil
}

// parseCoordinates reads "lat,lon;lat,lon;..."
func parseCoordinates(flagName, s string) ([]geo.Coordinate, error) {
	if s == "" {
		return nil, fmt.Errorf("-%s is required", flagName)
	}
	var coords []geo.Coordinate
	for _, part := range strings.Split(s, ";") {
		c, err := parseCoordinate(flagName, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}
