// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mapsrp provides a PostgreSQL repository for registration
// and calibration of map images, implementing the repo.Maps interface.
package mapsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/core/cerr"
	"github.com/momeni/georef/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gMapImage is the GORM model of one row in the maps table. The
// calibration columns are meaningful only when calibrated is true.
type gMapImage struct {
	MID        uuid.UUID `gorm:"primaryKey;type:uuid;column:mid"`
	Name       string
	Width      float64
	Height     float64
	Calibrated bool
	Origin     model.GPSPoint `gorm:"embedded;embeddedPrefix:origin_"`
	Opposite   model.GPSPoint `gorm:"embedded;embeddedPrefix:opposite_"`
	ErrX       float64        `gorm:"column:err_x"`
	ErrY       float64        `gorm:"column:err_y"`
}

func (gm *gMapImage) TableName() string {
	return "maps"
}

func (gm *gMapImage) Model() *model.MapImage {
	m := &model.MapImage{
		Name: gm.Name,
		Dimensions: model.Dimensions{
			Width:  gm.Width,
			Height: gm.Height,
		},
	}
	if gm.Calibrated {
		m.Calibration = &model.CalibrationResult{
			MaxError: model.ErrorEstimate{X: gm.ErrX, Y: gm.ErrY},
			Origin:   gm.Origin,
			Opposite: gm.Opposite,
		}
	}
	return m
}

// Create inserts a map image row with the mid unique identifier, name,
// and dims raw pixel dimensions, having no calibration information.
// The created map image instance will be returned.
func Create[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	mid uuid.UUID,
	name string,
	dims model.Dimensions,
) (*model.MapImage, error) {
	gdb := q.GORM(ctx)
	gm := gMapImage{
		MID:    mid,
		Name:   name,
		Width:  dims.Width,
		Height: dims.Height,
	}
	gdb.Create(&gm)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return gm.Model(), nil
}

// Find fetches the map image with the mid unique identifier, returning
// a 404 cerr.Error if no such row exists.
func Find[Q postgres.Queryer](
	ctx context.Context, q Q, mid uuid.UUID,
) (*model.MapImage, error) {
	gdb := q.GORM(ctx)
	var gm gMapImage
	gdb.Where("mid=?", mid).Take(&gm)
	if err := gdb.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cerr.NotFound(
				fmt.Errorf("no map image with mid=%s", mid),
			)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	return gm.Model(), nil
}

// SetCalibration stores the res calibration result as the current
// calibration of the map image with the mid unique identifier,
// overwriting any previous calibration. The updated map image is
// returned, or a 404 cerr.Error if no such row exists.
func SetCalibration[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	mid uuid.UUID,
	res model.CalibrationResult,
) (*model.MapImage, error) {
	gdb := q.GORM(ctx)
	var gm []gMapImage
	gdb.Model(&gm).Clauses(clause.Returning{}).Select(
		"calibrated",
		"origin_latitude", "origin_longitude",
		"opposite_latitude", "opposite_longitude",
		"err_x", "err_y",
	).Where(
		"mid=?", mid,
	).Updates(gMapImage{
		Calibrated: true,
		Origin:     res.Origin,
		Opposite:   res.Opposite,
		ErrX:       res.MaxError.X,
		ErrY:       res.MaxError.Y,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gm); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gm[0].Model(), nil
}
