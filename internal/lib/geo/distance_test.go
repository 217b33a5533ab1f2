package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Conversions(t *testing.T) {
	d := MustDistance(Kilometers(1))
	assert.Equal(t, 1000.0, d.InMeters())
	assert.Equal(t, 1.0, d.InKilometers())
	assert.Equal(t, 100000.0, d.InCentimeters())
	assert.InDelta(t, 0.621371, d.InMiles(), 1e-9)
	assert.InDelta(t, 0.539957, d.InNauticalMiles(), 1e-9)
	assert.InDelta(t, 3280.84, d.InFeet(), 1e-9)
	assert.InDelta(t, 1093.61, d.InYards(), 1e-9)

	mile := MustDistance(Miles(1))
	assert.InDelta(t, 1609.34, mile.InMeters(), 0.01)

	nm := MustDistance(NauticalMiles(1))
	assert.InDelta(t, 1852, nm.InMeters(), 0.01)

	ft := MustDistance(Feet(3.28084))
	assert.InDelta(t, 1, ft.InMeters(), 1e-9)

	yd := MustDistance(Yards(1.09361))
	assert.InDelta(t, 1, yd.InMeters(), 1e-9)
}

func TestNewDistance(t *testing.T) {
	for _, unit := range []Unit{UnitMeters, UnitKilometers, UnitCentimeters, UnitMiles, UnitNauticalMiles, UnitFeet, UnitYards} {
		d, err := NewDistance(42, unit)
		require.NoError(t, err, unit)
		assert.InDelta(t, 42, d.In(unit), 1e-9, unit)
	}

	_, err := NewDistance(1, Unit("furlong"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDistance_RejectsInvalid(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Meters(v)
		assert.ErrorIs(t, err, ErrValidation, "%v", v)
	}

	d, err := Meters(0)
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestParseUnit(t *testing.T) {
	cases := map[string]Unit{
		"km":     UnitKilometers,
		" Miles": UnitMiles,
		"nmi":    UnitNauticalMiles,
		"feet":   UnitFeet,
		"m":      UnitMeters,
	}
	for in, want := range cases {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseUnit("parsec")
	assert.Error(t, err)
}

func TestDistance_Format(t *testing.T) {
	d := MustDistance(Kilometers(1.5))
	assert.Equal(t, "1500.00 m", d.Format(UnitMeters))
	assert.Equal(t, "1.50 km", d.Format(UnitKilometers))
	assert.Equal(t, "1.50 km", d.String())
	assert.Equal(t, "0.93 mi", d.Format(UnitMiles))
	assert.Equal(t, "1500.00 m", d.Format(""))

	sum := d.Add(MustDistance(Meters(500)))
	assert.Equal(t, 2000.0, sum.InMeters())
}

func TestSphere(t *testing.T) {
	earth := Earth()
	assert.Equal(t, 6371.0, earth.Radius().InKilometers())
	assert.InDelta(t, 510064471.9, earth.SurfaceAreaKm2(), 1)
	assert.InDelta(t, 1.0832e12, earth.VolumeKm3(), 1e9)
	assert.InDelta(t, 40030.17, earth.Circumference().InKilometers(), 0.01)

	var zero Sphere
	assert.Equal(t, earth.Radius(), zero.Radius(), "Zero value behaves like Earth")

	unit, err := NewSphere(meters(1))
	require.NoError(t, err)
	assert.InDelta(t, 4*math.Pi, unit.SurfaceArea(), 1e-12)
	assert.InDelta(t, 4.0/3.0*math.Pi, unit.Volume(), 1e-12)

	_, err = NewSphere(Distance{})
	assert.ErrorIs(t, err, ErrValidation)
}
