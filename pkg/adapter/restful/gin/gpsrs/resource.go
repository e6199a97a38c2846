// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gpsrs realizes the gps resource, allowing frontends to check
// a comma-separated latitude,longitude text before submitting it as a
// part of a calibration request.
package gpsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/georef/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/georef/pkg/core/model"
)

type resource struct {
}

// Register instantiates a resource exposing the GPS text validation
// REST API:
//  1. GET request to /api/grweb/v1/gps?text=lat,lon
//     in order to check if the text is a well-formed GPS location.
func Register(r *gin.RouterGroup) {
	rs := &resource{}
	r.GET("gps", rs.CheckGPSText)
}

type rawCheckReq struct {
	Text string `form:"text" binding:"required"`
}

// checkResp is always reported with the OK status code, since an
// invalid GPS text is a valid answer of this API, not a failure.
type checkResp struct {
	Valid  bool    `json:"valid"`
	Point  *point  `json:"point,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

type point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (rs *resource) CheckGPSText(c *gin.Context) {
	req := &rawCheckReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	p, err := model.ParseGPSText(req.Text)
	if err != nil {
		reason := err.Error()
		c.JSON(http.StatusOK, checkResp{Valid: false, Reason: &reason})
		return
	}
	c.JSON(http.StatusOK, checkResp{
		Valid: true,
		Point: &point{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		},
	})
}
