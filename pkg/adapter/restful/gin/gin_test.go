// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/georef/internal/test/dbcontainer"
	"github.com/momeni/georef/pkg/adapter/config"
	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/adapter/restful/gin"
	"github.com/momeni/georef/pkg/adapter/restful/gin/routes"
	"github.com/momeni/georef/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	sql, err := os.ReadFile("testdata/schema.sql")
	igts.Require().NoError(err, "failed to read schema.sql file")
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, string(sql))
			return err
		},
	)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Ctx, igts.Gin, igts.Pool, &config.Config{})
	igts.Require().NoError(err, "failed to register Gin routes")
}

func stringAddr(s string) *string {
	return &s
}

func jsonBody(igts *IntegrationGinTestSuite, v any) io.Reader {
	b, err := json.Marshal(v)
	igts.Require().NoError(err, "cannot marshal request body")
	return bytes.NewReader(b)
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	req.Header.Add("Content-Type", "application/json")
	igts.Gin.ServeHTTP(w, req)
	b := w.Body.Bytes()
	igts.NoError(json.Unmarshal(b, res), "body is not json")
}

func (igts *IntegrationGinTestSuite) assertOptContains(
	expectedPart *string, seen []string, msgAndArgs ...any,
) bool {
	if expectedPart == nil {
		return true
	}
	if !igts.Equal(1, len(seen), msgAndArgs...) {
		return false
	}
	return igts.Contains(seen[0], *expectedPart, msgAndArgs...)
}

// mapResp mirrors the serialization format of the maps resource.
type mapResp struct {
	MID         uuid.UUID `json:"mid"`
	Name        string    `json:"name"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Calibration *struct {
		Origin struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"origin"`
		Opposite struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"opposite"`
		MaxError struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"max_error"`
	} `json:"calibration"`
}

func (igts *IntegrationGinTestSuite) createMap(
	name string, width, height float64,
) uuid.UUID {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPost,
		"/api/grweb/v1/maps",
		jsonBody(igts, map[string]any{
			"name":   name,
			"width":  width,
			"height": height,
		}),
	)
	igts.Require().NoError(err, "cannot create POST request")

	res := &mapResp{}
	igts.sendReqRecvResp(w, req, res)

	igts.Require().Equal(201, w.Code, "map was not created")
	igts.Equal(name, res.Name)
	igts.Equal(width, res.Width)
	igts.Equal(height, res.Height)
	igts.Nil(res.Calibration, "fresh map must not be calibrated")
	return res.MID
}

func (igts *IntegrationGinTestSuite) TestCreateMap() {
	mid := igts.createMap("harbor", 1000, 500)
	igts.NotEqual(uuid.Nil, mid)

	igts.Run("non-positive dimensions", func() {
		w := httptest.NewRecorder()
		req, err := http.NewRequest(
			http.MethodPost,
			"/api/grweb/v1/maps",
			jsonBody(igts, map[string]any{
				"name":   "flat",
				"width":  800,
				"height": -2,
			}),
		)
		igts.Require().NoError(err, "cannot create POST request")

		res := &struct {
			Height []string
		}{}
		igts.sendReqRecvResp(w, req, res)

		igts.Equal(400, w.Code)
		igts.assertOptContains(
			stringAddr("failed on the 'gt' tag"),
			res.Height, "wrong height",
		)
	})
}

func (igts *IntegrationGinTestSuite) TestGetMap() {
	mid := igts.createMap("uncalibrated", 640, 480)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodGet, "/api/grweb/v1/maps/"+mid.String(), nil,
	)
	igts.Require().NoError(err, "cannot create GET request")

	res := &mapResp{}
	igts.sendReqRecvResp(w, req, res)

	igts.Equal(200, w.Code)
	igts.Equal(mid, res.MID)
	igts.Equal("uncalibrated", res.Name)
	igts.Nil(res.Calibration)
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	missingMID := uuid.New()
	for _, tc := range []struct {
		name   string
		method string
		body   io.Reader
	}{
		{
			name:   "get",
			method: http.MethodGet,
			body:   nil,
		},
		{
			name:   "calibrate",
			method: http.MethodPatch,
			body: jsonBody(igts, map[string]any{
				"op":       "corners",
				"origin":   "10,20",
				"opposite": "10.01,20.01",
			}),
		},
	} {
		igts.Run(tc.name, func() {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				tc.method,
				"/api/grweb/v1/maps/"+missingMID.String(),
				tc.body,
			)
			igts.Require().NoError(err, "cannot create request")

			res := &struct {
				Detail string
			}{}
			igts.sendReqRecvResp(w, req, res)

			igts.Equal(404, w.Code)
			igts.Contains(
				res.Detail, "no map image with mid=", "wrong detail",
			)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestCalibratePoints() {
	mid := igts.createMap("harbor", 1000, 500)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPatch,
		"/api/grweb/v1/maps/"+mid.String(),
		jsonBody(igts, map[string]any{
			"op": "points",
			"points": []map[string]any{
				{"x": 0, "y": 0, "gps": "10,20"},
				{"x": 500, "y": 250, "gps": "10.005,20.01"},
			},
		}),
	)
	igts.Require().NoError(err, "cannot create PATCH request")

	res := &mapResp{}
	igts.sendReqRecvResp(w, req, res)

	igts.Equal(200, w.Code)
	igts.Require().NotNil(res.Calibration, "map must be calibrated")
	cr := res.Calibration
	igts.InDelta(10.0, cr.Origin.Latitude, 1e-9)
	igts.InDelta(20.0, cr.Origin.Longitude, 1e-9)
	igts.InDelta(10.005, cr.Opposite.Latitude, 1e-9)
	igts.InDelta(20.01, cr.Opposite.Longitude, 1e-9)
	igts.Zero(cr.MaxError.X)
	igts.Zero(cr.MaxError.Y)

	igts.Run("calibration is persisted", func() {
		w := httptest.NewRecorder()
		req, err := http.NewRequest(
			http.MethodGet, "/api/grweb/v1/maps/"+mid.String(), nil,
		)
		igts.Require().NoError(err, "cannot create GET request")

		res2 := &mapResp{}
		igts.sendReqRecvResp(w, req, res2)

		igts.Equal(200, w.Code)
		igts.Require().NotNil(res2.Calibration)
		igts.Equal(*cr, *res2.Calibration)
	})
}

func (igts *IntegrationGinTestSuite) TestCalibrateCorners() {
	mid := igts.createMap("downtown", 800, 800)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPatch,
		"/api/grweb/v1/maps/"+mid.String(),
		jsonBody(igts, map[string]any{
			"op":       "corners",
			"origin":   "40,-74",
			"opposite": "40.01,-73.99",
		}),
	)
	igts.Require().NoError(err, "cannot create PATCH request")

	res := &mapResp{}
	igts.sendReqRecvResp(w, req, res)

	igts.Equal(200, w.Code)
	igts.Require().NotNil(res.Calibration, "map must be calibrated")
	cr := res.Calibration
	igts.InDelta(40.0, cr.Origin.Latitude, 1e-9)
	igts.InDelta(-74.0, cr.Origin.Longitude, 1e-9)
	igts.InDelta(40.01, cr.Opposite.Latitude, 1e-9)
	igts.InDelta(-73.99, cr.Opposite.Longitude, 1e-9)
	igts.Zero(cr.MaxError.X)
	igts.Zero(cr.MaxError.Y)
}

func (igts *IntegrationGinTestSuite) TestCalibrateDegenerate() {
	mid := igts.createMap("skewed", 500, 500)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodPatch,
		"/api/grweb/v1/maps/"+mid.String(),
		jsonBody(igts, map[string]any{
			"op": "points",
			"points": []map[string]any{
				{"x": 100, "y": 0, "gps": "10,20"},
				{"x": 100, "y": 250, "gps": "10.005,20.01"},
			},
		}),
	)
	igts.Require().NoError(err, "cannot create PATCH request")

	res := &struct {
		Detail string
	}{}
	igts.sendReqRecvResp(w, req, res)

	igts.Equal(422, w.Code)
	igts.Contains(res.Detail, "share", "wrong detail")
}

func (igts *IntegrationGinTestSuite) TestCalibrateBadRequest() {
	mid := igts.createMap("strict", 500, 500)
	for _, tc := range []struct {
		name             string
		body             io.Reader
		detail, op       *string
		points           *string
		origin, opposite *string
		originOpposite   *string
	}{
		{
			name:   "no body",
			body:   nil,
			detail: stringAddr("invalid request"),
		},
		{
			name:   "empty body",
			body:   jsonBody(igts, map[string]any{}),
			op:     stringAddr("failed on the 'required' tag"),
		},
		{
			name: "invalid op",
			body: jsonBody(igts, map[string]any{
				"op": "invalid",
			}),
			op: stringAddr("failed on the 'oneof' tag"),
		},
		{
			name: "points no-points",
			body: jsonBody(igts, map[string]any{
				"op": "points",
			}),
			points: stringAddr("op=points requires a points list"),
		},
		{
			name: "points with corners",
			body: jsonBody(igts, map[string]any{
				"op": "points",
				"points": []map[string]any{
					{"x": 0, "y": 0, "gps": "10,20"},
					{"x": 500, "y": 500, "gps": "10.01,20.01"},
				},
				"origin": "10,20",
			}),
			originOpposite: stringAddr("op=points does not need corners"),
		},
		{
			name: "points with bad gps text",
			body: jsonBody(igts, map[string]any{
				"op": "points",
				"points": []map[string]any{
					{"x": 0, "y": 0, "gps": "10 20"},
					{"x": 500, "y": 500, "gps": "10.01,20.01"},
				},
			}),
			points: stringAddr("Bad GPS text: 10 20"),
		},
		{
			name: "points with out-of-range gps",
			body: jsonBody(igts, map[string]any{
				"op": "points",
				"points": []map[string]any{
					{"x": 0, "y": 0, "gps": "99,20"},
					{"x": 500, "y": 500, "gps": "10.01,20.01"},
				},
			}),
			points: stringAddr("Bad GPS text: 99,20"),
		},
		{
			name: "corners no-origin",
			body: jsonBody(igts, map[string]any{
				"op":       "corners",
				"opposite": "10.01,20.01",
			}),
			origin: stringAddr("op=corners requires an origin corner"),
		},
		{
			name: "corners no-opposite",
			body: jsonBody(igts, map[string]any{
				"op":     "corners",
				"origin": "10,20",
			}),
			opposite: stringAddr(
				"op=corners requires an opposite corner",
			),
		},
		{
			name: "corners with points",
			body: jsonBody(igts, map[string]any{
				"op":       "corners",
				"origin":   "10,20",
				"opposite": "10.01,20.01",
				"points": []map[string]any{
					{"x": 0, "y": 0, "gps": "10,20"},
				},
			}),
			points: stringAddr("op=corners does not need a points list"),
		},
	} {
		igts.Run(tc.name, func() {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodPatch,
				"/api/grweb/v1/maps/"+mid.String(),
				tc.body,
			)
			igts.Require().NoError(err, "cannot create PATCH request")

			res := &struct {
				Detail         string
				Op             []string
				Points         []string
				Origin         []string
				Opposite       []string
				OriginOpposite []string `json:"origin/opposite"`
			}{}
			igts.sendReqRecvResp(w, req, res)

			igts.Equal(400, w.Code)
			if tc.detail != nil {
				igts.Contains(res.Detail, *tc.detail, "wrong detail")
			}
			igts.assertOptContains(tc.op, res.Op, "wrong op")
			igts.assertOptContains(tc.points, res.Points, "wrong points")
			igts.assertOptContains(tc.origin, res.Origin, "wrong origin")
			igts.assertOptContains(
				tc.opposite, res.Opposite, "wrong opposite",
			)
			igts.assertOptContains(
				tc.originOpposite, res.OriginOpposite,
				"wrong origin/opposite",
			)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestCheckGPSText() {
	for _, tc := range []struct {
		name   string
		query  string
		code   int
		valid  bool
		reason *string
	}{
		{
			name:  "valid point",
			query: "?text=12.5,-70.25",
			code:  200,
			valid: true,
		},
		{
			name:  "surrounding whitespace",
			query: "?text=" + "%2012.5%20,%20-70.25",
			code:  200,
			valid: true,
		},
		{
			name:   "latitude out of range",
			query:  "?text=99,0",
			code:   200,
			valid:  false,
			reason: stringAddr("latitude"),
		},
		{
			name:   "missing separator",
			query:  "?text=12.5;-70.25",
			code:   200,
			valid:  false,
			reason: stringAddr("comma"),
		},
		{
			name:  "missing text",
			query: "",
			code:  400,
		},
	} {
		igts.Run(tc.name, func() {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodGet, "/api/grweb/v1/gps"+tc.query, nil,
			)
			igts.Require().NoError(err, "cannot create GET request")

			res := &struct {
				Valid  bool
				Reason *string
			}{}
			igts.sendReqRecvResp(w, req, res)

			igts.Equal(tc.code, w.Code)
			if tc.code != 200 {
				return
			}
			igts.Equal(tc.valid, res.Valid, "wrong validity verdict")
			if tc.reason != nil {
				igts.Require().NotNil(res.Reason, "expected a reason")
				igts.Contains(*res.Reason, *tc.reason, "wrong reason")
			}
		})
	}
}
