// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mapsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/georef/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/georef/pkg/core/model"
)

type rawCreateMapReq struct {
	Name   string  `json:"name" binding:"required"`
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

type createMapReq struct {
	Name string
	Dims model.Dimensions
}

func (rs *resource) DserCreateMapReq(c *gin.Context) *createMapReq {
	req := &rawCreateMapReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &createMapReq{
		Name: req.Name,
		Dims: model.Dimensions{
			Width:  req.Width,
			Height: req.Height,
		},
	}
}

type rawMapURI struct {
	MID string `uri:"mid" binding:"required,uuid"`
}

type getMapReq struct {
	MID uuid.UUID
}

func (rs *resource) DserGetMapReq(c *gin.Context) *getMapReq {
	uri := &rawMapURI{}
	if ok := serdser.BindUri(c, uri); !ok {
		return nil
	}
	mid, err := uuid.Parse(uri.MID)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "mid", "Path param mid is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &getMapReq{MID: mid}
}

// rawPoint carries one pixel-GPS correspondence point with its GPS
// location as a comma-separated latitude,longitude text, matching the
// format which is produced by common frontend map widgets.
type rawPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	GPS string  `json:"gps" binding:"required"`
}

type rawCalibrateMapReq struct {
	Op       string     `json:"op" binding:"required,oneof=points corners"`
	Points   []rawPoint `json:"points" binding:"omitempty,dive"`
	Origin   string     `json:"origin" binding:"omitempty"`
	Opposite string     `json:"opposite" binding:"omitempty"`
}

type calibrateMapReq struct {
	MID      uuid.UUID
	Mode     model.CalibrationMode
	Points   []model.CalibratedPoint
	Origin   string
	Opposite string
}

func (rs *resource) DserCalibrateMapReq(c *gin.Context) *calibrateMapReq {
	uri := &rawMapURI{}
	if ok := serdser.BindUri(c, uri); !ok {
		return nil
	}
	req := &rawCalibrateMapReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	val := &calibrateMapReq{}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	var err error
	val.MID, err = uuid.Parse(uri.MID)
	if err != nil {
		serdser.AddErr(&errs, "mid", "Path param mid is not UUID.")
		return nil
	}
	val.Mode, err = model.ParseCalibrationMode(req.Op)
	if err != nil {
		serdser.AddErr(&errs, "op", err.Error())
		return nil
	}
	switch val.Mode {
	case model.CalibrationModePoints:
		if serdser.Assert(&errs, len(req.Points) > 0, "points", "The op=points requires a points list.") &&
			serdser.Assert(&errs, req.Origin == "" && req.Opposite == "", "origin/opposite", "The op=points does not need corners.") {
			val.Points = dserPoints(&errs, req.Points)
		}
	case model.CalibrationModeCorners:
		if serdser.Assert(&errs, len(req.Points) == 0, "points", "The op=corners does not need a points list.") &&
			serdser.Assert(&errs, req.Origin != "", "origin", "The op=corners requires an origin corner.") &&
			serdser.Assert(&errs, req.Opposite != "", "opposite", "The op=corners requires an opposite corner.") {
			val.Origin = req.Origin
			val.Opposite = req.Opposite
		}
	default:
		panic("unknown op")
	}
	if errs == nil {
		return val
	}
	return nil
}

func dserPoints(
	errs *map[string][]string, points []rawPoint,
) []model.CalibratedPoint {
	set := make([]model.CalibratedPoint, 0, len(points))
	for _, p := range points {
		gps, err := model.ParseGPSText(p.GPS)
		if !serdser.Assert(
			errs, err == nil, "points", "Bad GPS text: "+p.GPS,
		) {
			continue
		}
		set = append(set, model.CalibratedPoint{
			Cartesian: model.CartesianPoint{X: p.X, Y: p.Y},
			GPS:       gps,
		})
	}
	return set
}

// SerGPSPoint is the serialization format of one model.GPSPoint.
type SerGPSPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SerCalibration is the serialization format of one
// model.CalibrationResult.
type SerCalibration struct {
	Origin   SerGPSPoint `json:"origin"`
	Opposite SerGPSPoint `json:"opposite"`
	MaxError struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"max_error"`
}

// SerMapImageResp is the serialization format of one model.MapImage
// with its unique identifier. The calibration field is omitted for
// map images which are not calibrated yet.
type SerMapImageResp struct {
	MID         uuid.UUID       `json:"mid"`
	Name        string          `json:"name"`
	Width       float64         `json:"width"`
	Height      float64         `json:"height"`
	Calibration *SerCalibration `json:"calibration,omitempty"`
}

// SerMapImage serializes the m map image and its mid unique
// identifier, preparing them for a JSON response.
func SerMapImage(mid uuid.UUID, m *model.MapImage) *SerMapImageResp {
	resp := &SerMapImageResp{
		MID:    mid,
		Name:   m.Name,
		Width:  m.Dimensions.Width,
		Height: m.Dimensions.Height,
	}
	if cr := m.Calibration; cr != nil {
		sc := &SerCalibration{
			Origin: SerGPSPoint{
				Latitude:  cr.Origin.Latitude,
				Longitude: cr.Origin.Longitude,
			},
			Opposite: SerGPSPoint{
				Latitude:  cr.Opposite.Latitude,
				Longitude: cr.Opposite.Longitude,
			},
		}
		sc.MaxError.X = cr.MaxError.X
		sc.MaxError.Y = cr.MaxError.Y
		resp.Calibration = sc
	}
	return resp
}
