package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/spherical/internal/lib/geo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	s, err := cfg.SphereValue()
	require.NoError(t, err)
	assert.Equal(t, geo.Earth(), s)

	opts := cfg.PathOptions()
	assert.Equal(t, geo.DefaultPointCount, opts.MinPoints)
	assert.Equal(t, 10000, opts.MaxPoints)

	feed, ok := cfg.Feed("chain-controls")
	assert.True(t, ok)
	assert.Equal(t, "https://quickmap.dot.ca.gov/data/cc.kml", feed.URL)

	_, ok = cfg.Feed("missing")
	assert.False(t, ok)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sphere.RadiusKm = -1
	cfg.Sampling.PathPoints = 0
	cfg.Sampling.CircleSegments = 2
	cfg.Cache.TTL = 0
	cfg.Feeds = append(cfg.Feeds,
		FeedConfig{ID: "chain-controls", URL: "https://example.com/a.kml"},
		FeedConfig{ID: "", URL: "not a url"},
	)

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"sphere.radius_km",
		"sampling.path_points",
		"sampling.circle_segments",
		"cache.ttl",
		`feeds[1].id "chain-controls" is duplicated`,
		"feeds[2].id is required",
		`feeds[2].url "not a url"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_CacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache = CacheConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MaxBelowDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sampling.MaxPathPoints = 10
	assert.ErrorContains(t, cfg.Validate(), "max_path_points (10)")

	cfg.Sampling.MaxPathPoints = 0
	assert.NoError(t, cfg.Validate(), "zero leaves paths uncapped")
}

func TestCustomSphere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sphere.RadiusKm = 1737.4
	cfg.Cache.CleanupInterval = 30 * time.Second
	require.NoError(t, cfg.Validate())

	s, err := cfg.SphereValue()
	require.NoError(t, err)
	assert.InDelta(t, 1737.4, s.Radius().InKilometers(), 1e-9)
}
