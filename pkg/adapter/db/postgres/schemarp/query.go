// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides the database schema management queries,
// making it possible to create the maps table and manage the
// database user roles. These queries are executed by the grweb db
// administration commands using a privileged database role, hence,
// they are not exposed to the use cases layer.
package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/core/repo"
)

// InitSchema creates the maps table if it does not exist right now.
// Calling it on an already initialized database causes no change.
func InitSchema[Q postgres.Queryer](ctx context.Context, q Q) error {
	_, err := q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS maps (
    mid uuid PRIMARY KEY,
    name varchar NOT NULL,
    width double precision NOT NULL,
    height double precision NOT NULL,
    calibrated boolean NOT NULL DEFAULT FALSE,
    origin_latitude double precision NOT NULL DEFAULT 0,
    origin_longitude double precision NOT NULL DEFAULT 0,
    opposite_latitude double precision NOT NULL DEFAULT 0,
    opposite_longitude double precision NOT NULL DEFAULT 0,
    err_x double precision NOT NULL DEFAULT 0,
    err_y double precision NOT NULL DEFAULT 0
)`)
	if err != nil {
		return fmt.Errorf("creating maps table: %w", err)
	}
	return nil
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, no specific password will be set for it, so that
// role may only login using the trust or local identity methods
// until a password is assigned out of band.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
DO $$ BEGIN
    CREATE ROLE %s LOGIN;
EXCEPTION WHEN duplicate_object THEN
    NULL;
END $$`, role))
	if err != nil {
		return fmt.Errorf("creating %q role: %w", role, err)
	}
	return nil
}

// GrantPrivileges grants the DML privileges on the maps table to the
// `role` role, so it may run the map image registration and
// calibration queries without obtaining any schema or role management
// privileges.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context, q Q, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT SELECT, INSERT, UPDATE, DELETE ON maps TO %s", role,
	))
	if err != nil {
		return fmt.Errorf("granting privileges to %q role: %w", role, err)
	}
	return nil
}
