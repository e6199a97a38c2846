// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package geocal_test

import (
	"testing"

	"github.com/momeni/georef/pkg/core/geocal"
	"github.com/momeni/georef/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDimensions(t *testing.T) {
	for _, tc := range []struct {
		name     string
		dims     model.Dimensions
		expected model.Dimensions
	}{
		{
			name:     "landscape",
			dims:     model.Dimensions{Width: 1000, Height: 500},
			expected: model.Dimensions{Width: 500, Height: 250},
		},
		{
			name:     "portrait",
			dims:     model.Dimensions{Width: 500, Height: 1000},
			expected: model.Dimensions{Width: 250, Height: 500},
		},
		{
			name:     "square tie takes the height-priority branch",
			dims:     model.Dimensions{Width: 500, Height: 500},
			expected: model.Dimensions{Width: 500, Height: 500},
		},
		{
			name:     "small square is scaled up",
			dims:     model.Dimensions{Width: 100, Height: 100},
			expected: model.Dimensions{Width: 500, Height: 500},
		},
		{
			name:     "small landscape is scaled up",
			dims:     model.Dimensions{Width: 200, Height: 100},
			expected: model.Dimensions{Width: 500, Height: 250},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			nd := geocal.NormalizeDimensions(tc.dims)
			assert.Equal(t, tc.expected, nd)
			assert.Equal(
				t, tc.dims, tc.dims,
				"input dimensions may not be mutated",
			)
		})
	}
}

func TestPairScale(t *testing.T) {
	p1 := model.CalibratedPoint{
		Cartesian: model.CartesianPoint{X: 0, Y: 0},
		GPS:       model.GPSPoint{Latitude: 40.0, Longitude: -74.0},
	}
	p2 := model.CalibratedPoint{
		Cartesian: model.CartesianPoint{X: 500, Y: 500},
		GPS:       model.GPSPoint{Latitude: 40.01, Longitude: -73.99},
	}
	s := geocal.PairScale(p1, p2)
	assert.InDelta(t, 0.00002, s.DegreePerUnitY, 1e-12)
	assert.InDelta(t, 0.00002, s.DegreePerUnitX, 1e-12)

	// swapping the arguments negates both differences, leaving the
	// quotients unchanged
	assert.Equal(t, s, geocal.PairScale(p2, p1))
}

func TestFromEndpoints(t *testing.T) {
	origin := model.GPSPoint{Latitude: 10.0, Longitude: 20.0}
	opposite := model.GPSPoint{Latitude: 10.005, Longitude: 20.01}
	s := geocal.FromEndpoints(
		origin, opposite, model.Dimensions{Width: 1000, Height: 500},
	)
	// normalized dimensions are 500x250
	assert.InDelta(t, 0.00002, s.DegreePerUnitX, 1e-12)
	assert.InDelta(t, 0.00002, s.DegreePerUnitY, 1e-12)
}

func TestCalibrateTwoPointRoundTrip(t *testing.T) {
	set := []model.CalibratedPoint{
		{
			Cartesian: model.CartesianPoint{X: 0, Y: 0},
			GPS:       model.GPSPoint{Latitude: 40.0, Longitude: -74.0},
		},
		{
			Cartesian: model.CartesianPoint{X: 500, Y: 500},
			GPS:       model.GPSPoint{Latitude: 40.01, Longitude: -73.99},
		},
	}
	res, err := geocal.Calibrate(
		set, model.Dimensions{Width: 500, Height: 500},
	)
	require.NoError(t, err)
	assert.Equal(
		t, model.GPSPoint{Latitude: 40.0, Longitude: -74.0}, res.Origin,
		"origin must reproduce the anchor point GPS exactly",
	)
	assert.Equal(
		t,
		model.GPSPoint{Latitude: 40.01, Longitude: -73.99},
		res.Opposite,
	)
	assert.Equal(t, model.ErrorEstimate{X: 0, Y: 0}, res.MaxError)
}

func TestCalibrateAnchorSymmetry(t *testing.T) {
	p1 := model.CalibratedPoint{
		Cartesian: model.CartesianPoint{X: 100, Y: 100},
		GPS:       model.GPSPoint{Latitude: 10.002, Longitude: 20.002},
	}
	p2 := model.CalibratedPoint{
		Cartesian: model.CartesianPoint{X: 400, Y: 400},
		GPS:       model.GPSPoint{Latitude: 10.008, Longitude: 20.008},
	}
	dims := model.Dimensions{Width: 500, Height: 500}

	res1, err := geocal.Calibrate([]model.CalibratedPoint{p1, p2}, dims)
	require.NoError(t, err)
	res2, err := geocal.Calibrate([]model.CalibratedPoint{p2, p1}, dims)
	require.NoError(t, err)

	// the anchor point differs, but a two-point set produces a
	// geometrically equivalent bounding box either way
	assert.InDelta(t, res1.Origin.Latitude, res2.Origin.Latitude, 1e-6)
	assert.InDelta(t, res1.Origin.Longitude, res2.Origin.Longitude, 1e-6)
	assert.InDelta(
		t, res1.Opposite.Latitude, res2.Opposite.Latitude, 1e-6,
	)
	assert.InDelta(
		t, res1.Opposite.Longitude, res2.Opposite.Longitude, 1e-6,
	)
	assert.InDelta(t, 10.0, res1.Origin.Latitude, 1e-9)
	assert.InDelta(t, 20.0, res1.Origin.Longitude, 1e-9)
	assert.InDelta(t, 10.01, res1.Opposite.Latitude, 1e-9)
	assert.InDelta(t, 20.01, res1.Opposite.Longitude, 1e-9)
}

func TestCalibrateConsistentSetHasZeroError(t *testing.T) {
	// all three points sit exactly on the same linear mapping
	// lat = 10 + 0.00002*y and lon = 20 + 0.00002*x
	set := []model.CalibratedPoint{
		{
			Cartesian: model.CartesianPoint{X: 0, Y: 0},
			GPS:       model.GPSPoint{Latitude: 10.0, Longitude: 20.0},
		},
		{
			Cartesian: model.CartesianPoint{X: 100, Y: 250},
			GPS:       model.GPSPoint{Latitude: 10.005, Longitude: 20.002},
		},
		{
			Cartesian: model.CartesianPoint{X: 250, Y: 100},
			GPS:       model.GPSPoint{Latitude: 10.002, Longitude: 20.005},
		},
	}
	res, err := geocal.Calibrate(
		set, model.Dimensions{Width: 500, Height: 500},
	)
	require.NoError(t, err)
	assert.Equal(t, model.ErrorEstimate{X: 0, Y: 0}, res.MaxError)
	assert.InDelta(t, 10.0, res.Origin.Latitude, 1e-6)
	assert.InDelta(t, 20.0, res.Origin.Longitude, 1e-6)
	assert.InDelta(t, 10.01, res.Opposite.Latitude, 1e-6)
	assert.InDelta(t, 20.01, res.Opposite.Longitude, 1e-6)
}

func TestCalibrateNoisySetReportsPositiveError(t *testing.T) {
	set := []model.CalibratedPoint{
		{
			Cartesian: model.CartesianPoint{X: 0, Y: 0},
			GPS:       model.GPSPoint{Latitude: 10.0, Longitude: 20.0},
		},
		{
			Cartesian: model.CartesianPoint{X: 100, Y: 250},
			GPS:       model.GPSPoint{Latitude: 10.006, Longitude: 20.002},
		},
		{
			Cartesian: model.CartesianPoint{X: 250, Y: 100},
			GPS:       model.GPSPoint{Latitude: 10.002, Longitude: 20.006},
		},
	}
	res, err := geocal.Calibrate(
		set, model.Dimensions{Width: 500, Height: 500},
	)
	require.NoError(t, err)
	assert.Greater(t, res.MaxError.X, 0.0)
	assert.Greater(t, res.MaxError.Y, 0.0)
}

func TestCalibrateNormalizesRawDimensions(t *testing.T) {
	// points are expressed in the normalized 500x250 space of a
	// 1000x500 pixels image
	set := []model.CalibratedPoint{
		{
			Cartesian: model.CartesianPoint{X: 0, Y: 0},
			GPS:       model.GPSPoint{Latitude: 10.0, Longitude: 20.0},
		},
		{
			Cartesian: model.CartesianPoint{X: 500, Y: 250},
			GPS:       model.GPSPoint{Latitude: 10.005, Longitude: 20.01},
		},
	}
	res, err := geocal.Calibrate(
		set, model.Dimensions{Width: 1000, Height: 500},
	)
	require.NoError(t, err)
	assert.InDelta(t, 10.005, res.Opposite.Latitude, 1e-9)
	assert.InDelta(t, 20.01, res.Opposite.Longitude, 1e-9)
}

func TestCalibrateRejectsDegenerateInputs(t *testing.T) {
	good := model.CalibratedPoint{
		Cartesian: model.CartesianPoint{X: 10, Y: 20},
		GPS:       model.GPSPoint{Latitude: 1, Longitude: 2},
	}
	dims := model.Dimensions{Width: 500, Height: 500}

	t.Run("too few points", func(t *testing.T) {
		_, err := geocal.Calibrate(nil, dims)
		assert.ErrorIs(t, err, geocal.ErrTooFewPoints)
		_, err = geocal.Calibrate(
			[]model.CalibratedPoint{good}, dims,
		)
		assert.ErrorIs(t, err, geocal.ErrTooFewPoints)
	})
	t.Run("non-positive dimensions", func(t *testing.T) {
		other := model.CalibratedPoint{
			Cartesian: model.CartesianPoint{X: 30, Y: 40},
			GPS:       model.GPSPoint{Latitude: 1.1, Longitude: 2.1},
		}
		_, err := geocal.Calibrate(
			[]model.CalibratedPoint{good, other},
			model.Dimensions{Width: 0, Height: 500},
		)
		var derr *model.DimensionsError
		assert.ErrorAs(t, err, &derr)
	})
	t.Run("shared x coordinate", func(t *testing.T) {
		other := model.CalibratedPoint{
			Cartesian: model.CartesianPoint{X: 10, Y: 40},
			GPS:       model.GPSPoint{Latitude: 1.1, Longitude: 2.1},
		}
		_, err := geocal.Calibrate(
			[]model.CalibratedPoint{good, other}, dims,
		)
		var gerr *geocal.DegenerateGeometryError
		if assert.ErrorAs(t, err, &gerr) {
			assert.Equal(t, "x", gerr.Axis)
			assert.Equal(t, 0, gerr.I)
			assert.Equal(t, 1, gerr.J)
		}
	})
	t.Run("shared y coordinate", func(t *testing.T) {
		other := model.CalibratedPoint{
			Cartesian: model.CartesianPoint{X: 30, Y: 20},
			GPS:       model.GPSPoint{Latitude: 1.1, Longitude: 2.1},
		}
		_, err := geocal.Calibrate(
			[]model.CalibratedPoint{good, other}, dims,
		)
		var gerr *geocal.DegenerateGeometryError
		if assert.ErrorAs(t, err, &gerr) {
			assert.Equal(t, "y", gerr.Axis)
		}
	})
}

func TestCalibrateRoundsReportedValues(t *testing.T) {
	set := []model.CalibratedPoint{
		{
			Cartesian: model.CartesianPoint{X: 3, Y: 7},
			GPS: model.GPSPoint{
				Latitude: 10.0000014, Longitude: 20.0000014,
			},
		},
		{
			Cartesian: model.CartesianPoint{X: 490, Y: 480},
			GPS: model.GPSPoint{
				Latitude: 10.0096014, Longitude: 20.0097414,
			},
		},
	}
	res, err := geocal.Calibrate(
		set, model.Dimensions{Width: 500, Height: 500},
	)
	require.NoError(t, err)
	assertDecimalPlaces(t, res.Origin.Latitude, 6)
	assertDecimalPlaces(t, res.Origin.Longitude, 6)
	assertDecimalPlaces(t, res.Opposite.Latitude, 6)
	assertDecimalPlaces(t, res.Opposite.Longitude, 6)
	assertDecimalPlaces(t, res.MaxError.X, 3)
	assertDecimalPlaces(t, res.MaxError.Y, 3)
}

// assertDecimalPlaces checks that v carries no more precision than the
// given number of decimal places, up to the binary representation
// error of the scaled value.
func assertDecimalPlaces(t *testing.T, v float64, places int) {
	t.Helper()
	f := 1.0
	for i := 0; i < places; i++ {
		f *= 10
	}
	scaled := v * f
	assert.InDelta(
		t, scaled, float64(int64(scaled+0.5)), 1e-6,
		"value %v has more than %d decimal places", v, places,
	)
}
