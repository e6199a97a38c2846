// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mapsrs realizes the maps resource, allowing the map image
// registration and calibration REST APIs to be accepted and delegated
// to the maps use cases respectively.
package mapsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/georef/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/georef/pkg/core/model"
	"github.com/momeni/georef/pkg/core/usecase/calibuc"
)

type resource struct {
	maps *calibuc.UseCase
}

// Register instantiates a resource adapting the maps use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/grweb/v1/maps
//     in order to register a map image by its name and dimensions.
//  2. GET request to /api/grweb/v1/maps/:mid
//     in order to fetch a map image and its current calibration.
//  3. PATCH request to /api/grweb/v1/maps/:mid
//     in order to calibrate a map image, either with a set of
//     pixel-GPS correspondence points or with the GPS coordinates
//     of its two diagonal corners.
func Register(r *gin.RouterGroup, maps *calibuc.UseCase) {
	rs := &resource{maps: maps}
	r.POST("maps", rs.CreateMap)
	r.GET("maps/:mid", rs.GetMap)
	r.PATCH("maps/:mid", rs.CalibrateMap)
}

func (rs *resource) CreateMap(c *gin.Context) {
	req := rs.DserCreateMapReq(c)
	if req == nil {
		return
	}
	mid, m, err := rs.maps.Create(c, req.Name, req.Dims)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, SerMapImage(mid, m))
}

func (rs *resource) GetMap(c *gin.Context) {
	req := rs.DserGetMapReq(c)
	if req == nil {
		return
	}
	m, err := rs.maps.Get(c, req.MID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerMapImage(req.MID, m))
}

func (rs *resource) CalibrateMap(c *gin.Context) {
	req := rs.DserCalibrateMapReq(c)
	if req == nil {
		return
	}
	var m *model.MapImage
	var err error
	switch req.Mode {
	case model.CalibrationModePoints:
		m, err = rs.maps.Calibrate(c, req.MID, req.Points)
	case model.CalibrationModeCorners:
		m, err = rs.maps.CalibrateFromCorners(
			c, req.MID, req.Origin, req.Opposite,
		)
	default:
		panic("unexpected mode: " + req.Mode.String())
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerMapImage(req.MID, m))
}
