// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// CalibrationMode specifies how a calibration request provides its
// ground-truth information and accepts the points and corners methods.
// Although this enum is numeric, it is (de)serialized as a string for
// readability in the adapter layer.
type CalibrationMode int

// Valid values for the CalibrationMode enum.
const (
	CalibrationModeInvalid CalibrationMode = iota // zero value is invalid

	CalibrationModePoints  // an arbitrary set of pixel-GPS correspondences
	CalibrationModeCorners // exactly two GPS texts for the diagonal corners
)

// ErrUnknownCalibrationMode indicates that a given string may not be
// parsed as a valid/known calibration mode. The invalid string itself
// is not encoded in the error because the caller of the parse function
// already knows it and can wrap this error with that extra context.
var ErrUnknownCalibrationMode = errors.New("unknown calibration mode")

// CalibrationModeError indicates an invalid calibration mode, keeping
// the invalid mode as an integer.
type CalibrationModeError int

// Error implements the error interface, returning a string
// representation of the CalibrationModeError.
func (e CalibrationModeError) Error() string {
	return fmt.Sprintf("invalid calibration mode: %d", int(e))
}

// Validate returns nil if CalibrationMode value is valid. For invalid
// values, an instance of the CalibrationModeError will be returned.
func (m CalibrationMode) Validate() error {
	switch m {
	case CalibrationModePoints, CalibrationModeCorners:
		return nil
	default:
		return CalibrationModeError(m)
	}
}

// String converts the CalibrationMode enum to a string, helping to
// serialize it for transmission to web clients (for improved
// readability). Invalid calibration mode causes a panic.
func (m CalibrationMode) String() string {
	switch m {
	case CalibrationModePoints:
		return "points"
	case CalibrationModeCorners:
		return "corners"
	default:
		panic(CalibrationModeError(m))
	}
}

// ParseCalibrationMode parses the given string and returns a
// CalibrationMode, helping to deserialize it when reading a REST API
// request. For invalid strings, CalibrationModeInvalid and
// ErrUnknownCalibrationMode will be returned.
func ParseCalibrationMode(m string) (CalibrationMode, error) {
	switch m {
	case "points":
		return CalibrationModePoints, nil
	case "corners":
		return CalibrationModeCorners, nil
	default:
		return CalibrationModeInvalid, ErrUnknownCalibrationMode
	}
}
