package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dpup/spherical/internal/lib/geo"
)

// Config represents the complete configuration shared by the server and the CLI
type Config struct {
	Sphere   SphereConfig   `yaml:"sphere" koanf:"sphere"`
	Sampling SamplingConfig `yaml:"sampling" koanf:"sampling"`
	Cache    CacheConfig    `yaml:"cache" koanf:"cache"`
	Feeds    []FeedConfig   `yaml:"feeds" koanf:"feeds"`
}

// SphereConfig selects the sphere every calculation runs on
type SphereConfig struct {
	RadiusKm float64 `yaml:"radius_km" koanf:"radius_km"`
}

// SamplingConfig controls how paths and circles are turned into vertices
type SamplingConfig struct {
	PathPoints     int `yaml:"path_points" koanf:"path_points"`
	MaxPathPoints  int `yaml:"max_path_points" koanf:"max_path_points"`
	CircleSegments int `yaml:"circle_segments" koanf:"circle_segments"`
}

// CacheConfig holds render cache settings
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" koanf:"enabled"`
	TTL             time.Duration `yaml:"ttl" koanf:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" koanf:"cleanup_interval"`
}

// FeedConfig names a remote KML document whose placemarks can be queried
type FeedConfig struct {
	ID   string `yaml:"id" koanf:"id"`
	Name string `yaml:"name" koanf:"name"`
	URL  string `yaml:"url" koanf:"url"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Sphere: SphereConfig{
			RadiusKm: geo.EarthRadiusMeters / 1000,
		},
		Sampling: SamplingConfig{
			PathPoints:     geo.DefaultPointCount,
			MaxPathPoints:  10000,
			CircleSegments: 64,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Feeds: []FeedConfig{
			{
				ID:   "chain-controls",
				Name: "Caltrans chain controls",
				URL:  "https://quickmap.dot.ca.gov/data/cc.kml",
			},
		},
	}
}

// Validate checks that every setting is usable and reports all problems at once
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.SphereValue(); err != nil {
		errs = append(errs, fmt.Sprintf("sphere.radius_km must be positive, got %g", c.Sphere.RadiusKm))
	}
	if c.Sampling.PathPoints <= 0 {
		errs = append(errs, fmt.Sprintf("sampling.path_points must be positive, got %d", c.Sampling.PathPoints))
	}
	if c.Sampling.MaxPathPoints < 0 {
		errs = append(errs, fmt.Sprintf("sampling.max_path_points must not be negative, got %d", c.Sampling.MaxPathPoints))
	}
	if c.Sampling.MaxPathPoints > 0 && c.Sampling.MaxPathPoints < c.Sampling.PathPoints {
		errs = append(errs, fmt.Sprintf("sampling.max_path_points (%d) is below sampling.path_points (%d)", c.Sampling.MaxPathPoints, c.Sampling.PathPoints))
	}
	if c.Sampling.CircleSegments < 3 {
		errs = append(errs, fmt.Sprintf("sampling.circle_segments must be at least 3, got %d", c.Sampling.CircleSegments))
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			errs = append(errs, "cache.ttl must be positive")
		}
		if c.Cache.CleanupInterval <= 0 {
			errs = append(errs, "cache.cleanup_interval must be positive")
		}
	}

	seen := map[string]bool{}
	for i, feed := range c.Feeds {
		if feed.ID == "" {
			errs = append(errs, fmt.Sprintf("feeds[%d].id is required", i))
		} else if seen[feed.ID] {
			errs = append(errs, fmt.Sprintf("feeds[%d].id %q is duplicated", i, feed.ID))
		}
		seen[feed.ID] = true
		if u, err := url.Parse(feed.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("feeds[%d].url %q is not an absolute URL", i, feed.URL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// SphereValue returns the configured sphere
func (c *Config) SphereValue() (geo.Sphere, error) {
	radius, err := geo.Kilometers(c.Sphere.RadiusKm)
	if err != nil {
		return geo.Sphere{}, err
	}
	return geo.NewSphere(radius)
}

// PathOptions returns the sampling options applied to great-circle paths
func (c *Config) PathOptions() geo.PointOptions {
	return geo.PointOptions{
		MinPoints: c.Sampling.PathPoints,
		MaxPoints: c.Sampling.MaxPathPoints,
	}
}

// Feed looks up a feed by id
func (c *Config) Feed(id string) (FeedConfig, bool) {
	for _, feed := range c.Feeds {
		if feed.ID == id {
			return feed, true
		}
	}
	return FeedConfig{}, false
}
