// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides a PostgreSQL implementation of the
// connection related interfaces from the pkg/core/repo package,
// including the Pool, Conn, and Tx types, using the GORM framework.
// Repository packages, such as mapsrp, build their queries on top of
// these types.
package postgres

import (
	"github.com/momeni/georef/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version. The schema itself may
// be created by the schemarp repository package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the current database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
