// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

// MapImage models a raster image which may be georeferenced and
// persisted in a database. It records the raw pixel dimensions of the
// image and, once a calibration has been computed, the resulting
// bounding GPS corners and error estimate.
// This model does not contain an ID; identifier management is left to
// the adapter layer, see the unexported gMapImage struct in the
// pkg/adapter/db/postgres/mapsrp/query.go file.
type MapImage struct {
	Name        string             // display name of the image
	Dimensions  Dimensions         // raw pixel dimensions
	Calibration *CalibrationResult // nil until the image is calibrated
}
