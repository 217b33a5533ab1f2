package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallCircle_Metrics(t *testing.T) {
	c, err := NewSmallCircle(MustCoordinate(0, 0), MustDistance(Kilometers(1)))
	require.NoError(t, err)

	// at 1 km the curvature of the earth is negligible
	assert.InDelta(t, 2*math.Pi, c.Circumference().InKilometers(), 0.001)
	assert.InDelta(t, math.Pi, c.AreaKm2(), 1e-6)
	assert.InDelta(t, 1000.0/EarthRadiusMeters, c.AngularRadius().Radians(), 1e-15)
	assert.True(t, c.Center().Equal(MustCoordinate(0, 0)))
	assert.Equal(t, 1000.0, c.Radius().InMeters())
}

func TestSmallCircle_Hemisphere(t *testing.T) {
	quarter := Earth().Circumference().InMeters() / 4
	c, err := NewSmallCircle(MustCoordinate(90, 0), meters(quarter))
	require.NoError(t, err)

	assert.InDelta(t, Earth().Circumference().InMeters(), c.Circumference().InMeters(), 1e-3, "The equator is a great circle")
	assert.InDelta(t, Earth().SurfaceArea()/2, c.Area(), Earth().SurfaceArea()*1e-12)

	whole, err := NewSmallCircle(MustCoordinate(90, 0), meters(quarter*2))
	require.NoError(t, err)
	assert.InDelta(t, Earth().SurfaceArea(), whole.Area(), Earth().SurfaceArea()*1e-12)
}

func TestSmallCircle_Invalid(t *testing.T) {
	_, err := NewSmallCircle(london, Distance{})
	assert.ErrorIs(t, err, ErrValidation)

	tooBig := Earth().Circumference().InMeters()/2 + 1
	_, err = NewSmallCircle(london, meters(tooBig))
	assert.ErrorIs(t, err, ErrValidation)

	c, err := NewSmallCircle(london, MustDistance(Kilometers(10)))
	require.NoError(t, err)
	_, err = c.GeneratePoints(0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSmallCircle_GeneratePoints(t *testing.T) {
	radius := MustDistance(Kilometers(100))
	centers := []Coordinate{london, sydney, MustCoordinate(0, 179.9), MustCoordinate(89.9, 0), MustCoordinate(-60, -179.5)}

	for _, center := range centers {
		c, err := NewSmallCircle(center, radius)
		require.NoError(t, err)

		points, err := c.GeneratePoints(36)
		require.NoError(t, err)
		require.Len(t, points, 36)

		for _, p := range points {
			d := ArcBetween(center, p).Length()
			assert.InDelta(t, radius.InMeters(), d.InMeters(), radius.InMeters()*0.01, "%s around %s", p, center)
			assert.GreaterOrEqual(t, p.Longitude(), -180.0)
			assert.LessOrEqual(t, p.Longitude(), 180.0)
		}
	}
}

func TestSmallCircle_GeneratePointsAcrossAntimeridian(t *testing.T) {
	c, err := NewSmallCircle(MustCoordinate(0, 179.9), MustDistance(Kilometers(50)))
	require.NoError(t, err)

	points, err := c.GeneratePoints(8)
	require.NoError(t, err)

	// first point due north, then clockwise
	assert.InDelta(t, 179.9, points[0].Longitude(), 1e-9)
	assert.Greater(t, points[0].Latitude(), 0.0)
	assert.Less(t, points[2].Longitude(), 0.0, "Due east wraps into the western hemisphere")
	assert.Greater(t, points[6].Longitude(), 179.0)
}

func TestSmallCircle_Contains(t *testing.T) {
	c, err := NewSmallCircle(angelsCamp, MustDistance(Kilometers(12)))
	require.NoError(t, err)
	assert.True(t, c.Contains(murphys))
	assert.True(t, c.Contains(angelsCamp))
	assert.False(t, c.Contains(london))
}
