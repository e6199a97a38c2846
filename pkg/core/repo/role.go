// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
type Role string

// These constants specify the expected database roles. At least the
// AdminRole must exist beforehand (i.e., must be created manually)
// and it must have the privileges which are required for creation of
// the project tables. The authentication information of these roles
// are kept out of the configuration file, as indicated there.
const (
	// AdminRole is an administrator role which may be used for the
	// table creation during the database initialization action.
	// Generally, the minimal set of operations which are not required
	// normally but may be essential to start other normal use cases,
	// may be performed by this role.
	AdminRole Role = "admin"

	// NormalRole is a normal (unprivileged) role which is used for
	// all common operations on the existing tables, that is, the map
	// image registration and calibration use cases.
	NormalRole Role = "grweb"
)
