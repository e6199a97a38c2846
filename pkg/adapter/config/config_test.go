// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/momeni/georef/pkg/adapter/config"
	"github.com/momeni/georef/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(contents), 0o600)
	require.NoError(t, err, "cannot write config file")
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: 127.0.0.1
  port: 5432
  name: georef1_0_0
  pass-dir: /var/lib/grweb
gin:
  logger: true
usecases:
  maps:
    max-points: 16
versions:
  database: 1.0.0
  config: 1.0.0
`)
	c, err := config.Load(context.Background(), path)
	require.NoError(t, err, "cannot load config file")

	assert.Equal(t, "127.0.0.1", c.Database.Host)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, "georef1_0_0", c.Database.Name)
	if assert.NotNil(t, c.Gin.Logger) {
		assert.True(t, *c.Gin.Logger)
	}
	if assert.NotNil(t, c.Gin.Recovery, "must be defaulted") {
		assert.False(t, *c.Gin.Recovery)
	}
	if assert.NotNil(t, c.Usecases.Maps.MaxPoints) {
		assert.Equal(t, 16, *c.Usecases.Maps.MaxPoints)
	}
}

func TestLoadVersionMismatch(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := writeConfigFile(t, `
versions:
  database: 1.0.0
  config: 2.0.0
`)
		_, err := config.Load(context.Background(), path)
		var msve *cerr.MismatchingSemVerError
		assert.ErrorAs(t, err, &msve)
	})
	t.Run("database", func(t *testing.T) {
		path := writeConfigFile(t, `
versions:
  database: 0.9.0
  config: 1.0.0
`)
		_, err := config.Load(context.Background(), path)
		var msve *cerr.MismatchingSemVerError
		assert.ErrorAs(t, err, &msve)
	})
}

func TestLoadClampsMaxPoints(t *testing.T) {
	path := writeConfigFile(t, `
usecases:
  maps:
    max-points: 1000
    max-points-minimum: 2
    max-points-maximum: 64
versions:
  database: 1.0.0
  config: 1.0.0
`)
	c, err := config.Load(context.Background(), path)
	require.NoError(t, err, "clamping must not fail the load")
	if assert.NotNil(t, c.Usecases.Maps.MaxPoints) {
		assert.Equal(t, 64, *c.Usecases.Maps.MaxPoints)
	}
}

func TestLoadInvalidMaxPointsRange(t *testing.T) {
	path := writeConfigFile(t, `
usecases:
  maps:
    max-points: 10
    max-points-minimum: 64
    max-points-maximum: 2
versions:
  database: 1.0.0
  config: 1.0.0
`)
	_, err := config.Load(context.Background(), path)
	assert.Error(t, err, "min above max must fail the load")
}
