// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package calibuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the maps calibration use case.
type Option func(uc *UseCase) error

// WithMaxPoints option configures a maps UseCase instance in order to
// reject calibration sets with more than the given number of points,
// bounding the O(n^2) pairwise scale computation per request.
// This option may be passed to the New() function.
func WithMaxPoints(n int) Option {
	return func(uc *UseCase) error {
		if n < 2 {
			return fmt.Errorf(
				"max points (%d) may not be less than 2", n,
			)
		}
		if uc.maxPoints != 0 {
			return errors.New("max points is already configured")
		}
		uc.maxPoints = n
		return nil
	}
}
