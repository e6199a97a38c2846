// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"log/slog"
)

// CartesianPoint represents a pixel offset within a raster image,
// measured from the image origin corner. Callers pass raw pixel
// coordinates; the calibration algorithm interprets them in whichever
// coordinate space the whole calibration set is expressed in.
type CartesianPoint struct {
	X, Y float64 // pixel offsets along the horizontal and vertical axes
}

// CalibratedPoint pairs one cartesian pixel position with one known
// geographic location, forming a single ground-truth correspondence.
// All points of one calibration set must be expressed in the same
// (normalized) coordinate space. Instances are immutable once
// constructed.
type CalibratedPoint struct {
	Cartesian CartesianPoint // pixel position within the image
	GPS       GPSPoint       // known geographic location of that pixel
}

// Dimensions represents the width and height of a raster image in
// pixels. Both components must be positive. Normalization never
// mutates a Dimensions value; it produces a new one.
type Dimensions struct {
	Width, Height float64
}

// Validate returns nil if both dimension components are positive.
// Otherwise, a *DimensionsError will be returned, since zero or
// negative dimensions make the normalization divisions meaningless.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return &DimensionsError{Width: d.Width, Height: d.Height}
	}
	return nil
}

// DimensionsError indicates non-positive image dimensions which would
// otherwise propagate as NaN or Infinity through the normalization
// divisions.
type DimensionsError struct {
	Width, Height float64
}

// Error implements the error interface, returning a string
// representation of the DimensionsError.
func (e *DimensionsError) Error() string {
	return fmt.Sprintf(
		"image dimensions %gx%g are not positive", e.Width, e.Height,
	)
}

// MapScale represents the inferred scale factors which convert one
// unit of image-space displacement into degrees of longitude (along X)
// and latitude (along Y). It is an ephemeral, derived value; one
// MapScale is computed per correspondence pair and their average forms
// the final transform.
type MapScale struct {
	DegreePerUnitX float64 // longitude degrees per horizontal unit
	DegreePerUnitY float64 // latitude degrees per vertical unit
}

// LogValue implements slog.LogValuer, reporting both scale factors as
// a structured group value.
func (s MapScale) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("degree-per-unit-x", s.DegreePerUnitX),
		slog.Float64("degree-per-unit-y", s.DegreePerUnitY),
	)
}

// ErrorEstimate reports the worst-case calibration error per axis as
// a percentage of the geographic diagonal length of the image. It is
// zero for a perfectly consistent calibration set and grows with the
// spread of the per-pair scale estimates.
type ErrorEstimate struct {
	X, Y float64 // percentage values, non-negative
}

// CalibrationResult is the final output of a calibration run. Origin
// and Opposite are the two diagonal corners of the image bounding box
// in GPS coordinates, rounded to 6 decimal places. MaxError holds the
// per-axis worst-case error percentages, rounded to 3 decimal places.
// The result is immutable and has no further lifecycle.
type CalibrationResult struct {
	MaxError ErrorEstimate
	Origin   GPSPoint
	Opposite GPSPoint
}
