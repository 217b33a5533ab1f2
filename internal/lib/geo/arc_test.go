package geo

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	london  = MustCoordinate(51.5074, -0.1278)
	paris   = MustCoordinate(48.8566, 2.3522)
	newYork = MustCoordinate(40.7128, -74.0060)
	sydney  = MustCoordinate(-33.8688, 151.2093)
	tokyo   = MustCoordinate(35.6762, 139.6503)
)

func TestArc_Length(t *testing.T) {
	d := ArcBetween(london, paris).Length()
	assert.InDelta(t, 343.5, d.InKilometers(), 1.0)

	d = ArcBetween(london, newYork).Length()
	assert.InDelta(t, 5570, d.InKilometers(), 1)
	assert.InDelta(t, 3461, d.InMiles(), 1)

	quarter := ArcBetween(MustCoordinate(0, 0), MustCoordinate(0, 90)).Length()
	assert.InDelta(t, 10007.5, quarter.InKilometers(), 0.1)
	assert.InDelta(t, Earth().Circumference().InMeters()/4, quarter.InMeters(), 1e-6)

	assert.Equal(t, 0.0, ArcBetween(paris, paris).Length().InMeters())
}

func TestArc_LengthIsSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{{london, paris}, {newYork, sydney}, {tokyo, angelsCamp}}
	for _, p := range pairs {
		assert.InDelta(t, ArcBetween(p[0], p[1]).Length().InMeters(), ArcBetween(p[1], p[0]).Length().InMeters(), 1e-6)
	}
}

func TestArc_MatchesS2(t *testing.T) {
	points := []Coordinate{london, paris, newYork, sydney, tokyo, angelsCamp, murphys, MustCoordinate(90, 0), MustCoordinate(-45, 180)}
	for _, p1 := range points {
		for _, p2 := range points {
			want := s2.LatLngFromDegrees(p1.Latitude(), p1.Longitude()).
				Distance(s2.LatLngFromDegrees(p2.Latitude(), p2.Longitude())).Radians()
			got := ArcBetween(p1, p2).CentralAngle().Radians()
			assert.InDelta(t, want, got, 1e-9, "%s → %s", p1, p2)
		}
	}
}

func TestArc_Modes(t *testing.T) {
	byAngle := ArcFromAngle(NewAngle(90))
	assert.InDelta(t, 10007.5, byAngle.Length().InKilometers(), 0.1)
	assert.Equal(t, 90.0, byAngle.CentralAngle().Degrees())
	_, _, ok := byAngle.Endpoints()
	assert.False(t, ok)

	full := ArcOnSphere()
	assert.Equal(t, Earth().Circumference(), full.Length())
	assert.Equal(t, 360.0, full.CentralAngle().Degrees())

	_, err := full.Interpolate(0.5)
	assert.ErrorIs(t, err, ErrValidation)

	start, end, ok := ArcBetween(london, paris).Endpoints()
	require.True(t, ok)
	assert.True(t, start.Equal(london))
	assert.True(t, end.Equal(paris))
}

func TestArc_InterpolateEndpoints(t *testing.T) {
	arc := ArcBetween(london, newYork)

	p, err := arc.Interpolate(0)
	require.NoError(t, err)
	assert.True(t, p.Equal(london))

	p, err = arc.Interpolate(1)
	require.NoError(t, err)
	assert.True(t, p.Equal(newYork))

	for _, f := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := arc.Interpolate(f)
		assert.ErrorIs(t, err, ErrValidation, "fraction %v", f)
	}
}

func TestArc_InterpolateAlongPath(t *testing.T) {
	arc := ArcBetween(london, newYork)
	total := arc.Length().InMeters()

	for _, f := range []float64{0.1, 0.25, 0.5, 0.9} {
		p, err := arc.Interpolate(f)
		require.NoError(t, err)
		assert.InDelta(t, f*total, ArcBetween(london, p).Length().InMeters(), 1e-3)
		assert.InDelta(t, (1-f)*total, ArcBetween(p, newYork).Length().InMeters(), 1e-3)
	}
}

func TestArc_InterpolateDegenerate(t *testing.T) {
	// coincident
	p, err := ArcBetween(paris, paris).Interpolate(0.5)
	require.NoError(t, err)
	assert.True(t, p.Equal(paris))

	// antipodal points pick the meridian through the north pole
	p, err = ArcBetween(MustCoordinate(0, 0), MustCoordinate(0, 180)).Interpolate(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 90, p.Latitude(), 1e-9)

	// across the antimeridian the path stays short
	p, err = ArcBetween(MustCoordinate(0, 170), MustCoordinate(0, -170)).Interpolate(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.Latitude(), 1e-9)
	assert.InDelta(t, 180, math.Abs(p.Longitude()), 1e-9)

	// via the pole
	p, err = ArcBetween(MustCoordinate(80, 0), MustCoordinate(80, 180)).Interpolate(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 90, p.Latitude(), 1e-9)
}

func TestAzimuth(t *testing.T) {
	az := NewAzimuth(london, paris)
	assert.InDelta(t, 148.1, az.Forward().Degrees(), 0.5)
	assert.InDelta(t, math.Mod(az.Forward().Degrees()+180, 360), az.Reverse().Degrees(), 1e-9)

	assert.InDelta(t, 90, NewAzimuth(MustCoordinate(0, 0), MustCoordinate(0, 10)).Forward().Degrees(), 1e-9)
	assert.InDelta(t, 0, NewAzimuth(MustCoordinate(0, 0), MustCoordinate(10, 0)).Forward().Degrees(), 1e-9)
	assert.InDelta(t, 180, NewAzimuth(MustCoordinate(10, 0), MustCoordinate(0, 0)).Forward().Degrees(), 1e-9)
	assert.InDelta(t, 270, NewAzimuth(MustCoordinate(0, 10), MustCoordinate(0, 0)).Forward().Degrees(), 1e-9)

	for _, pair := range [][2]Coordinate{{london, newYork}, {sydney, tokyo}, {newYork, london}} {
		fwd := NewAzimuth(pair[0], pair[1]).Forward().Degrees()
		assert.True(t, fwd >= 0 && fwd < 360, "forward azimuth %v out of range", fwd)
	}
}

func TestBearing(t *testing.T) {
	eastward := NewBearing(MustCoordinate(0, 0), MustCoordinate(0, 10))
	assert.InDelta(t, 90, eastward.Initial().Degrees(), 1e-9)
	assert.InDelta(t, 270, eastward.Final().Degrees(), 1e-9)
	assert.InDelta(t, 90, eastward.Arrival().Degrees(), 1e-9)

	// a transatlantic flight leaves heading north-west and arrives heading south-west
	b := NewBearing(london, newYork)
	assert.InDelta(t, 288.3, b.Initial().Degrees(), 0.5)
	assert.InDelta(t, 231.3, b.Arrival().Degrees(), 1)
}
