// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mapsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/core/model"
	"github.com/momeni/georef/pkg/core/repo"
)

// Repo implements the repo.Maps interface, providing map image
// queries over a postgres.Conn or postgres.Tx.
type Repo struct {
}

// New instantiates a maps Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a repo.Conn instance, asserts that it is created by this
// adapter package, and returns a repo.MapsConnQueryer instance which
// runs its queries over that connection.
func (maps *Repo) Conn(c repo.Conn) repo.MapsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, mid uuid.UUID, name string, dims model.Dimensions) (*model.MapImage, error) {
	return Create(ctx, cq.Conn, mid, name, dims)
}

func (cq connQueryer) Find(ctx context.Context, mid uuid.UUID) (*model.MapImage, error) {
	return Find(ctx, cq.Conn, mid)
}

func (cq connQueryer) SetCalibration(ctx context.Context, mid uuid.UUID, res model.CalibrationResult) (*model.MapImage, error) {
	return SetCalibration(ctx, cq.Conn, mid, res)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a repo.Tx instance, asserts that it is created by this
// adapter package, and returns a repo.MapsTxQueryer instance which
// runs its queries in that transaction.
func (maps *Repo) Tx(tx repo.Tx) repo.MapsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, mid uuid.UUID, name string, dims model.Dimensions) (*model.MapImage, error) {
	return Create(ctx, tq.Tx, mid, name, dims)
}

func (tq txQueryer) Find(ctx context.Context, mid uuid.UUID) (*model.MapImage, error) {
	return Find(ctx, tq.Tx, mid)
}

func (tq txQueryer) SetCalibration(ctx context.Context, mid uuid.UUID, res model.CalibrationResult) (*model.MapImage, error) {
	return SetCalibration(ctx, tq.Tx, mid, res)
}
