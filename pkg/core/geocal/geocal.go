// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package geocal computes the mapping between pixel coordinates of a
// raster image and real-world geographic coordinates, given a set of
// known pixel-GPS correspondences. It infers a best-fit uniform affine
// scale (degrees of latitude/longitude per image unit), back-solves
// the bounding GPS corners of the image, and reports a worst-case
// error estimate based on the spread of the per-pair scale estimates.
//
// The computation assumes a locally-flat-earth linear approximation
// which is valid over small areas; no projection or datum correction
// is applied and sheared or rotated transforms are not supported.
// All functions are pure and stateless, hence, safe for concurrent
// use without synchronization.
package geocal

import (
	"errors"
	"fmt"
	"math"

	"github.com/momeni/georef/pkg/core/model"
)

// NormalizedBound is the edge length of the canonical box which image
// dimensions are rescaled into before calibration. Working in this
// canonical coordinate space keeps the per-unit scale factors within
// a comparable magnitude regardless of the raw image resolution.
const NormalizedBound = float64(500)

// ErrTooFewPoints indicates that a calibration set had fewer than two
// correspondence points, while the pairwise scale computation needs
// at least one pair of points to be meaningful.
var ErrTooFewPoints = errors.New(
	"calibration requires at least two points",
)

// DegenerateGeometryError indicates that two points of a calibration
// set shared a pixel coordinate along one axis, making the finite
// difference scale computation divide by zero on that axis. The I and
// J fields report the zero-based positions of the offending points
// within the calibration set.
type DegenerateGeometryError struct {
	I, J int    // positions of the coinciding points in the set
	Axis string // either "x" or "y"
}

// Error implements the error interface, returning a string
// representation of the DegenerateGeometryError.
func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf(
		"points %d and %d share the same %s pixel coordinate",
		e.I, e.J, e.Axis,
	)
}

// NormalizeDimensions rescales the given image dimensions to fit
// within the canonical 500x500 unit box, preserving the aspect ratio.
// If width is greater than height, the width takes the bound value and
// the height is scaled proportionally; otherwise (including the square
// tie), the height takes the bound value and the width is scaled.
// A new Dimensions value is returned; the input is never mutated.
// Behavior is undefined for non-positive dimensions (the divisions
// produce NaN or Infinity); such inputs are a caller error and are
// rejected at the Calibrate boundary instead.
func NormalizeDimensions(d model.Dimensions) model.Dimensions {
	if d.Width > d.Height {
		return model.Dimensions{
			Width:  NormalizedBound,
			Height: NormalizedBound * d.Height / d.Width,
		}
	}
	return model.Dimensions{
		Width:  NormalizedBound * d.Width / d.Height,
		Height: NormalizedBound,
	}
}

// PairScale computes the finite-difference scale between two
// correspondence points, dividing their latitude difference by their
// vertical pixel distance and their longitude difference by their
// horizontal pixel distance.
// If the two points share the same cartesian x (or y) coordinate, the
// respective scale factor becomes infinite, or NaN when their GPS
// coordinates coincide too. Such degenerate values are propagated,
// not guarded; callers must supply points with distinct pixel
// coordinates on both axes or accept degenerate results. The
// Calibrate function rejects degenerate sets before reaching here.
func PairScale(p1, p2 model.CalibratedPoint) model.MapScale {
	return model.MapScale{
		DegreePerUnitX: (p1.GPS.Longitude - p2.GPS.Longitude) /
			(p1.Cartesian.X - p2.Cartesian.X),
		DegreePerUnitY: (p1.GPS.Latitude - p2.GPS.Latitude) /
			(p1.Cartesian.Y - p2.Cartesian.Y),
	}
}

// FromEndpoints computes the map scale for the two-corner convenience
// path, where only the GPS locations of the image origin corner and
// its diagonally opposite corner are known. The origin is treated as
// pixel (0,0) and the opposite corner as the far corner of the
// normalized dimensions, then the computation is delegated to the
// pairwise scale logic.
func FromEndpoints(
	origin, opposite model.GPSPoint, dims model.Dimensions,
) model.MapScale {
	nd := NormalizeDimensions(dims)
	return PairScale(
		model.CalibratedPoint{GPS: origin},
		model.CalibratedPoint{
			Cartesian: model.CartesianPoint{X: nd.Width, Y: nd.Height},
			GPS:       opposite,
		},
	)
}

// Calibrate infers the bounding GPS corners of an image and an error
// estimate from a calibration set of at least two correspondence
// points, expressed in the normalized coordinate space, and from the
// raw image dimensions.
//
// The algorithm normalizes the dimensions, computes one MapScale per
// unordered pair of points (enumerated in input order), averages the
// per-pair scale factors, back-solves the image origin corner using
// the first point of the set as the anchor, derives the opposite
// corner from the normalized dimensions, and reports the worst
// per-axis deviation of the inspected scale estimates from their mean,
// as a percentage of the geographic diagonal length. Corners are
// rounded to 6 decimal places and error percentages to 3.
//
// Note that swapping the order of the set elements changes which GPS
// value anchors the origin computation, producing a different but
// geometrically equivalent bounding box.
//
// Instead of letting degenerate inputs corrupt the result with NaN or
// Infinity values, Calibrate fails fast: fewer than two points yield
// ErrTooFewPoints, non-positive dimensions yield *DimensionsError,
// and a pair of points sharing a pixel coordinate on either axis
// yields *DegenerateGeometryError. Valid inputs are computed exactly
// as described above.
func Calibrate(
	set []model.CalibratedPoint, dims model.Dimensions,
) (model.CalibrationResult, error) {
	var res model.CalibrationResult
	n := len(set)
	if n < 2 {
		return res, ErrTooFewPoints
	}
	if err := dims.Validate(); err != nil {
		return res, err
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case set[i].Cartesian.X == set[j].Cartesian.X:
				return res, &DegenerateGeometryError{
					I: i, J: j, Axis: "x",
				}
			case set[i].Cartesian.Y == set[j].Cartesian.Y:
				return res, &DegenerateGeometryError{
					I: i, J: j, Axis: "y",
				}
			}
		}
	}
	nd := NormalizeDimensions(dims)

	scales := make([]model.MapScale, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			scales = append(scales, PairScale(set[i], set[j]))
		}
	}
	var avgX, avgY float64
	for _, s := range scales {
		avgX += s.DegreePerUnitX
		avgY += s.DegreePerUnitY
	}
	avgX /= float64(len(scales))
	avgY /= float64(len(scales))

	anchor := set[0]
	origin := model.GPSPoint{
		Longitude: anchor.GPS.Longitude - avgX*anchor.Cartesian.X,
		Latitude:  anchor.GPS.Latitude - avgY*anchor.Cartesian.Y,
	}
	opposite := model.GPSPoint{
		Longitude: origin.Longitude + nd.Width*avgX,
		Latitude:  origin.Latitude + nd.Height*avgY,
	}

	// The historical behavior inspects the first n entries of the
	// pairwise scales sequence, which only involve pairs with
	// low-numbered points; it is kept as-is for output compatibility.
	// For a 2-point set there is a single pair, so the loop is bounded
	// by the sequence length as well.
	var maxDX, maxDY float64
	for i := 0; i < n && i < len(scales); i++ {
		if d := math.Abs(scales[i].DegreePerUnitX - avgX); d > maxDX {
			maxDX = d
		}
		if d := math.Abs(scales[i].DegreePerUnitY - avgY); d > maxDY {
			maxDY = d
		}
	}
	diagonal := math.Sqrt(
		nd.Width*avgX*nd.Width*avgX + nd.Height*avgY*nd.Height*avgY,
	)

	res.Origin = model.GPSPoint{
		Longitude: round(origin.Longitude, 6),
		Latitude:  round(origin.Latitude, 6),
	}
	res.Opposite = model.GPSPoint{
		Longitude: round(opposite.Longitude, 6),
		Latitude:  round(opposite.Latitude, 6),
	}
	res.MaxError = model.ErrorEstimate{
		X: round(maxDX/diagonal*100, 3),
		Y: round(maxDY/diagonal*100, 3),
	}
	return res, nil
}

// round rounds v half away from zero, keeping the given number of
// decimal places.
func round(v float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(v*f) / f
}
