// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the grweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in another (possibly non-exported) config struct (or directly in the
// relevant end-component such as a UseCase instance).
package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/georef/pkg/adapter/config/settings"
	"github.com/momeni/georef/pkg/adapter/config/vers"
	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/adapter/restful/gin"
	"github.com/momeni/georef/pkg/core/cerr"
	"github.com/momeni/georef/pkg/core/log"
	"github.com/momeni/georef/pkg/core/model"
	"github.com/momeni/georef/pkg/core/repo"
	"github.com/momeni/georef/pkg/core/usecase/calibuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so other layers can change freely without affecting the
// configuration file format.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the known configuration settings format. The corresponding database
// schema version must also match with the known schema version.
// Versions are parsed and verified before the rest of the settings,
// so a version mismatch is reported as a *cerr.MismatchingSemVerError
// instead of an arbitrary yaml decoding error.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	vc := v.Versions
	switch {
	case vc.Config != Version:
		return nil, fmt.Errorf(
			"config version: %w",
			&cerr.MismatchingSemVerError{Version, vc.Config},
		)
	case vc.Database != postgres.Version:
		return nil, fmt.Errorf(
			"database schema version: %w",
			&cerr.MismatchingSemVerError{postgres.Version, vc.Database},
		)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(ctx); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any). Out-of-range optional
// settings are clamped to their nearest boundary value and reported
// as a warning instead of an error.
func (c *Config) ValidateAndNormalize(ctx context.Context) error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	// No need to check for c.Usecases.Maps.MaxPoints == nil
	// because it has no default in adapters layer.
	if err := settings.VerifyRange(
		&c.Usecases.Maps.MaxPoints,
		c.Usecases.Maps.MinMaxPoints,
		c.Usecases.Maps.MaxMaxPoints,
	); err != nil {
		if err.InvalidRange {
			return fmt.Errorf(
				"max-points boundaries (minb=%v, maxb=%v): %w",
				c.Usecases.Maps.MinMaxPoints,
				c.Usecases.Maps.MaxMaxPoints,
				err,
			)
		}
		log.Warn(
			ctx, "clamped out-of-range max-points setting",
			log.Err("range", err),
			slog.Int("max-points", *c.Usecases.Maps.MaxPoints),
		)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Config instance.
func (c *Config) ConnectionInfo() (dbName, host string, port int) {
	return c.Database.ConnectionInfo()
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like georef1_0_0
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// The .pgpass file in the d.PassDir folder provides the passwords
// and should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPool: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines which should conform with the pgpass
// files format with lines like this:
//
//	host:port:dbname:role:password
//
// If the `path` file could be read and a password for the asked `r`
// role could be identified, a URL and a nil error will be returned.
// Otherwise, returned string will be empty and error will describe the
// wrapped error condition.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized in the configuration file. Uninitialized
// items are filled with their default values by ValidateAndNormalize.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Maps Maps // map image use cases related settings
}

// Maps contains the configuration settings for the map image
// registration and calibration use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. A nil MaxPoints asks the use cases layer
// to select its default value.
type Maps struct {
	// MaxPoints indicates the maximum acceptable number of
	// calibration points in one calibration request.
	MaxPoints *int `yaml:"max-points"`
	// MinMaxPoints is the inclusive minimum acceptable value
	// for the MaxPoints setting.
	// A missing value indicates that there is no lower bound.
	MinMaxPoints *int `yaml:"max-points-minimum"`
	// MaxMaxPoints is the inclusive maximum acceptable value
	// for the MaxPoints setting.
	// A missing value indicates that there is no upper bound.
	MaxMaxPoints *int `yaml:"max-points-maximum"`
}

// NewUseCase instantiates a new maps use case based on the settings
// in the `m` struct.
func (m Maps) NewUseCase(
	p repo.Pool, r repo.Maps,
) (*calibuc.UseCase, error) {
	opts := make([]calibuc.Option, 0, 1)
	if m.MaxPoints != nil {
		opts = append(opts, calibuc.WithMaxPoints(*m.MaxPoints))
	}
	return calibuc.New(p, r, opts...)
}
