package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreatCircle_Distance(t *testing.T) {
	gc := NewGreatCircle(london, paris)
	assert.InDelta(t, 343.5, gc.Distance().InKilometers(), 1.0)
	assert.Equal(t, ArcBetween(london, paris).Length(), gc.Distance())
	assert.Equal(t, gc.Distance(), gc.Arc().Length())

	moon, err := NewSphere(MustDistance(Kilometers(1737.4)))
	require.NoError(t, err)
	onMoon := NewGreatCircle(MustCoordinate(0, 0), MustCoordinate(0, 90), WithSphere(moon))
	assert.InDelta(t, 1737.4*3.141592653589793/2, onMoon.Distance().InKilometers(), 1e-9)
	assert.Equal(t, moon, onMoon.Sphere())
}

func TestGreatCircle_GeneratePoints(t *testing.T) {
	gc := NewGreatCircle(london, paris)

	tests := []struct {
		name string
		opts PointOptions
		want int
	}{
		{"default", PointOptions{}, DefaultPointCount + 1},
		{"spacing", PointOptions{Spacing: MustDistance(Kilometers(100))}, 5},
		{"spacing wins over min", PointOptions{Spacing: MustDistance(Kilometers(100)), MinPoints: 50}, 5},
		{"min points", PointOptions{MinPoints: 10}, 11},
		{"capped", PointOptions{MinPoints: 10, MaxPoints: 3}, 4},
		{"cap above count", PointOptions{MinPoints: 10, MaxPoints: 30}, 11},
		{"spacing longer than path", PointOptions{Spacing: MustDistance(Kilometers(1000))}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := gc.GeneratePoints(tt.opts)
			require.NoError(t, err)
			require.Len(t, points, tt.want)
			assert.True(t, points[0].Equal(london))
			assert.True(t, points[len(points)-1].Equal(paris))
		})
	}
}

func TestGreatCircle_GeneratePointsEvenlySpaced(t *testing.T) {
	gc := NewGreatCircle(newYork, tokyo)
	points, err := gc.GeneratePoints(PointOptions{MinPoints: 20})
	require.NoError(t, err)

	step := gc.Distance().InMeters() / 20
	for i := 1; i < len(points); i++ {
		assert.InDelta(t, step, ArcBetween(points[i-1], points[i]).Length().InMeters(), 1e-3)
	}
}

func TestGreatCircle_GeneratePointsInvalid(t *testing.T) {
	gc := NewGreatCircle(london, paris)

	_, err := gc.GeneratePoints(PointOptions{MinPoints: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = gc.GeneratePoints(PointOptions{MaxPoints: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGreatCircle_ZeroLength(t *testing.T) {
	gc := NewGreatCircle(paris, paris)
	assert.True(t, gc.Distance().IsZero())

	points, err := gc.GeneratePoints(PointOptions{MinPoints: 4})
	require.NoError(t, err)
	require.Len(t, points, 5)
	for _, p := range points {
		assert.True(t, p.Equal(paris))
	}

	_, err = gc.Extend(MustDistance(Kilometers(10)))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = gc.CrossTrackDistance(london)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGreatCircle_Midpoint(t *testing.T) {
	gc := NewGreatCircle(MustCoordinate(0, 0), MustCoordinate(0, 90))
	mid, err := gc.Midpoint()
	require.NoError(t, err)
	assert.InDelta(t, 0, mid.Latitude(), 1e-9)
	assert.InDelta(t, 45, mid.Longitude(), 1e-9)

	mid, err = NewGreatCircle(london, newYork).Midpoint()
	require.NoError(t, err)
	assert.Greater(t, mid.Latitude(), 51.5074, "The great circle bulges poleward")
}

func TestGreatCircle_Extend(t *testing.T) {
	gc := NewGreatCircle(MustCoordinate(0, 0), MustCoordinate(0, 10))

	extended, err := gc.Extend(gc.Distance())
	require.NoError(t, err)
	assert.True(t, extended.Start().Equal(gc.Start()))
	assert.InDelta(t, 0, extended.End().Latitude(), 1e-9)
	assert.InDelta(t, 20, extended.End().Longitude(), 1e-9)
	assert.InDelta(t, 2*gc.Distance().InMeters(), extended.Distance().InMeters(), 1e-3)

	// the projection keeps the original heading
	extended, err = NewGreatCircle(london, paris).Extend(MustDistance(Kilometers(500)))
	require.NoError(t, err)
	assert.InDelta(t, NewGreatCircle(london, paris).InitialBearing().Degrees(), extended.InitialBearing().Degrees(), 1e-6)
	assert.InDelta(t, 843.556, extended.Distance().InKilometers(), 0.01)
}

func TestGreatCircle_CrossAndAlongTrack(t *testing.T) {
	gc := NewGreatCircle(MustCoordinate(0, 0), MustCoordinate(0, 10))
	oneDegree := EarthRadiusMeters * degToRad

	xt, err := gc.CrossTrackDistance(MustCoordinate(1, 5))
	require.NoError(t, err)
	assert.InDelta(t, oneDegree, xt.InMeters(), 1e-3)

	xt, err = gc.CrossTrackDistance(MustCoordinate(-1, 50))
	require.NoError(t, err)
	assert.InDelta(t, oneDegree, xt.InMeters(), 1e-3, "Cross-track measures against the full circle")

	at, err := gc.AlongTrackDistance(MustCoordinate(1, 5))
	require.NoError(t, err)
	assert.InDelta(t, 5*oneDegree, at.InMeters(), 1e-3)

	within, err := gc.IsWithinDistance(MustCoordinate(1, 5), MustDistance(Kilometers(112)))
	require.NoError(t, err)
	assert.True(t, within)

	within, err = gc.IsWithinDistance(MustCoordinate(1, 5), MustDistance(Kilometers(100)))
	require.NoError(t, err)
	assert.False(t, within)

	_, err = NewGreatCircle(MustCoordinate(0, 0), MustCoordinate(0, 180)).CrossTrackDistance(london)
	assert.ErrorIs(t, err, ErrValidation, "Antipodal endpoints do not define a unique circle")
}

func TestGreatCircle_Bearings(t *testing.T) {
	gc := NewGreatCircle(london, newYork)
	assert.InDelta(t, 288.3, gc.InitialBearing().Degrees(), 0.5)
	assert.InDelta(t, 231.2, gc.FinalBearing().Degrees(), 0.5)
}
