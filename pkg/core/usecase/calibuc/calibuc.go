// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package calibuc contains the maps UseCase which supports the
// image georeferencing use cases:
//  1. Registering a raster map image with its pixel dimensions,
//  2. Calibrating an image from a set of pixel-GPS correspondences,
//  3. Calibrating an image from its two diagonal GPS corners,
//  4. Fetching an image with its calibration result.
package calibuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/georef/pkg/core/cerr"
	"github.com/momeni/georef/pkg/core/geocal"
	"github.com/momeni/georef/pkg/core/log"
	"github.com/momeni/georef/pkg/core/model"
	"github.com/momeni/georef/pkg/core/repo"
)

// UseCase represents a maps calibration use case. It holds a database
// connection pool, the maps repository instance (to be guided with the
// DB pool), and the calibration use case specific settings.
type UseCase struct {
	pool   repo.Pool
	mapsrp repo.Maps

	maxPoints int
}

// New instantiates a maps calibration use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, m repo.Maps, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, mapsrp: m}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.maxPoints == 0 {
		uc.maxPoints = 32
	}
	return uc, nil
}

// Create use case registers a new map image with the given name and
// raw pixel dimensions, so it may be calibrated later. A fresh map
// identifier, the created map model, and possible errors are returned.
// Non-positive dimensions are rejected as a bad request.
func (maps *UseCase) Create(
	ctx context.Context, name string, dims model.Dimensions,
) (mid uuid.UUID, m *model.MapImage, err error) {
	if err = dims.Validate(); err != nil {
		return uuid.Nil, nil, cerr.BadRequest(err)
	}
	mid = uuid.New()
	err = maps.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := maps.mapsrp.Conn(c)
		m, err = q.Create(ctx, mid, name, dims)
		return err
	})
	if err != nil {
		return uuid.Nil, nil, err
	}
	return mid, m, nil
}

// Get use case fetches the mid map image, including its calibration
// result (if any). Unknown identifiers are reported as not-found.
func (maps *UseCase) Get(
	ctx context.Context, mid uuid.UUID,
) (m *model.MapImage, err error) {
	err = maps.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := maps.mapsrp.Conn(c)
		m, err = q.Find(ctx, mid)
		return err
	})
	if err != nil {
		m = nil
	}
	return
}

// Calibrate use case computes and persists the calibration of the mid
// map image from the given set of correspondence points, which must be
// expressed in the normalized coordinate space of the image. The GPS
// coordinates of all points are range checked first. The point count
// must be at least 2 and at most the configured maximum.
// The image lookup, calibration, and persistence run in a single
// transaction, so a concurrent re-calibration cannot interleave.
// Degenerate point geometry is reported as an unprocessable entity,
// keeping the wrapped geocal error inspectable.
func (maps *UseCase) Calibrate(
	ctx context.Context, mid uuid.UUID, set []model.CalibratedPoint,
) (m *model.MapImage, err error) {
	if n := len(set); n < 2 {
		return nil, cerr.BadRequest(fmt.Errorf(
			"at least 2 calibration points are required, got %d", n,
		))
	} else if n > maps.maxPoints {
		return nil, cerr.BadRequest(fmt.Errorf(
			"at most %d calibration points are supported, got %d",
			maps.maxPoints, n,
		))
	}
	for i, p := range set {
		if err := p.GPS.Validate(); err != nil {
			return nil, cerr.BadRequest(
				fmt.Errorf("point %d: %w", i, err),
			)
		}
	}
	err = maps.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := maps.mapsrp.Tx(tx)
			m, err = q.Find(ctx, mid)
			if err != nil {
				return err
			}
			res, err := geocal.Calibrate(set, m.Dimensions)
			if err != nil {
				return cerr.UnprocessableEntity(err)
			}
			m, err = q.SetCalibration(ctx, mid, res)
			return err
		})
	})
	if err != nil {
		m = nil
	}
	return
}

// CalibrateFromCorners use case computes and persists the calibration
// of the mid map image from the raw GPS texts of its origin corner and
// the diagonally opposite corner, as typed by an end-user. Texts which
// cannot be parsed as in-range "latitude,longitude" pairs are rejected
// as a bad request. The two corners are treated as correspondence
// points at the extremes of the normalized image dimensions and then
// calibrated and stored like a regular two-point set.
func (maps *UseCase) CalibrateFromCorners(
	ctx context.Context, mid uuid.UUID, originText, oppositeText string,
) (m *model.MapImage, err error) {
	origin, err := model.ParseGPSText(originText)
	if err != nil {
		return nil, cerr.BadRequest(
			fmt.Errorf("origin corner: %w", err),
		)
	}
	opposite, err := model.ParseGPSText(oppositeText)
	if err != nil {
		return nil, cerr.BadRequest(
			fmt.Errorf("opposite corner: %w", err),
		)
	}
	err = maps.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := maps.mapsrp.Tx(tx)
			m, err = q.Find(ctx, mid)
			if err != nil {
				return err
			}
			scale := geocal.FromEndpoints(
				origin, opposite, m.Dimensions,
			)
			log.Debug(
				ctx,
				"inferred two-corner map scale",
				log.UUID("mid", mid),
				log.Valuer("scale", scale),
			)
			nd := geocal.NormalizeDimensions(m.Dimensions)
			res, err := geocal.Calibrate(
				[]model.CalibratedPoint{
					{GPS: origin},
					{
						Cartesian: model.CartesianPoint{
							X: nd.Width, Y: nd.Height,
						},
						GPS: opposite,
					},
				},
				m.Dimensions,
			)
			if err != nil {
				return cerr.UnprocessableEntity(err)
			}
			m, err = q.SetCalibration(ctx, mid, res)
			return err
		})
	})
	if err != nil {
		m = nil
	}
	return
}
