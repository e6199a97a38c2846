// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// These constants define the world bounds for geographic coordinates
// in decimal degrees. Every GPSPoint which is consumed or produced by
// this project must fall within these inclusive bounds.
const (
	LatMin = float64(-90)
	LatMax = float64(90)
	LonMin = float64(-180)
	LonMax = float64(180)
)

// GPSPoint represents a geographic location with a longitude and
// latitude, expressed in decimal degrees. Instances are value types
// and are never mutated after construction; every transformation
// produces a new GPSPoint.
type GPSPoint struct {
	Longitude float64 // longitude in [-180, 180] degrees
	Latitude  float64 // latitude in [-90, 90] degrees
}

// ErrNoSeparator indicates that a raw GPS text was missing the comma
// separator which must split its latitude and longitude components.
var ErrNoSeparator = errors.New("gps text must contain a comma")

// CoordinateRangeError indicates that a latitude or longitude value
// fell outside of its valid world bounds. The Value field may be NaN
// when the original text component was not numeric at all, since a
// non-numeric component is treated as an out-of-range value rather
// than a distinct error condition.
type CoordinateRangeError struct {
	Axis  string  // either "latitude" or "longitude"
	Value float64 // the offending value, possibly NaN
}

// Error implements the error interface, returning a string
// representation of the CoordinateRangeError.
func (e *CoordinateRangeError) Error() string {
	return fmt.Sprintf("%s %v is out of range", e.Axis, e.Value)
}

// ParseGPSText parses a raw "latitude,longitude" text, as typed by an
// end-user, and returns the corresponding GPSPoint. If no comma is
// present, ErrNoSeparator will be returned. Non-numeric components
// are taken as NaN, hence, they fail the world bounds checks exactly
// like an out-of-range number and cause a *CoordinateRangeError to be
// returned. In absence of errors, the returned GPSPoint is guaranteed
// to satisfy its Validate method.
func ParseGPSText(text string) (GPSPoint, error) {
	latText, lonText, found := strings.Cut(text, ",")
	if !found {
		return GPSPoint{}, ErrNoSeparator
	}
	lat := parseCoordinate(latText)
	if !(lat >= LatMin && lat <= LatMax) {
		return GPSPoint{}, &CoordinateRangeError{
			Axis: "latitude", Value: lat,
		}
	}
	lon := parseCoordinate(lonText)
	if !(lon >= LonMin && lon <= LonMax) {
		return GPSPoint{}, &CoordinateRangeError{
			Axis: "longitude", Value: lon,
		}
	}
	return GPSPoint{Longitude: lon, Latitude: lat}, nil
}

// ValidateGPSText reports if the given raw GPS text can be parsed as
// a "latitude,longitude" pair with in-range components. This predicate
// never panics or returns an error, so callers may branch on it before
// constructing a CalibratedPoint. For an inspectable failure reason,
// use ParseGPSText instead.
func ValidateGPSText(text string) bool {
	_, err := ParseGPSText(text)
	return err == nil
}

// parseCoordinate parses one coordinate component, returning NaN for
// non-numeric text, so the caller range checks can reject it.
func parseCoordinate(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Validate returns nil if both coordinates of the `p` GPSPoint fall
// within their world bounds. For out-of-range (or NaN) coordinates,
// an instance of the *CoordinateRangeError will be returned, reporting
// the first violating axis.
func (p GPSPoint) Validate() error {
	if !(p.Latitude >= LatMin && p.Latitude <= LatMax) {
		return &CoordinateRangeError{
			Axis: "latitude", Value: p.Latitude,
		}
	}
	if !(p.Longitude >= LonMin && p.Longitude <= LonMax) {
		return &CoordinateRangeError{
			Axis: "longitude", Value: p.Longitude,
		}
	}
	return nil
}

// String returns the `p` GPSPoint in the same "latitude,longitude"
// format which is accepted by the ParseGPSText function.
func (p GPSPoint) String() string {
	return fmt.Sprintf("%g,%g", p.Latitude, p.Longitude)
}
