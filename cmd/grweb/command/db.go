// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/georef/pkg/adapter/config"
	"github.com/momeni/georef/pkg/adapter/db/postgres"
	"github.com/momeni/georef/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/georef/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command creates the maps table
and the normal database role with its required privileges.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema and roles",
	Long: `Initialize the database schema and roles using the database
connection information which are read from the configuration file.
The maps table will be created if it does not exist and the normal
database role will be created and granted the DML privileges on it.
This command requires the admin role credentials in the passwords
file, while the web server itself only needs the normal role ones.
Running it on an already initialized database causes no change, so it
may be repeated safely after an upgrade.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(ctx, cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	role := repo.NormalRole + c.Database.RoleSuffix
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tt := tx.(*postgres.Tx)
			if err := schemarp.InitSchema(ctx, tt); err != nil {
				return err
			}
			err := schemarp.CreateRoleIfNotExists(ctx, tt, role)
			if err != nil {
				return err
			}
			return schemarp.GrantPrivileges(ctx, tt, role)
		})
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}
