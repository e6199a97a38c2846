// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/georef/pkg/adapter/config"
	"github.com/momeni/georef/pkg/adapter/db/postgres/mapsrp"
	"github.com/momeni/georef/pkg/adapter/restful/gin/gpsrs"
	"github.com/momeni/georef/pkg/adapter/restful/gin/mapsrs"
	"github.com/momeni/georef/pkg/core/repo"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like calibuc and each repository package is named like mapsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like mapsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	mapsRepo := mapsrp.New()

	mapsUseCase, err := c.Usecases.Maps.NewUseCase(p, mapsRepo)
	if err != nil {
		return fmt.Errorf("creating maps use case: %w", err)
	}
	r := e.Group("/api/grweb/v1")
	mapsrs.Register(r, mapsUseCase)
	gpsrs.Register(r)
	return nil
}
