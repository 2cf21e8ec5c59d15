/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"

	"github.com/jerry-enebeli/paydocs/database"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

const migrationSchema = "paydocs"

func migrateCommands(p *paydocsInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "run paydocs database migrations",
	}

	cmd.AddCommand(migrateDirectionCommand(p, "up", migrate.Up))
	cmd.AddCommand(migrateDirectionCommand(p, "down", migrate.Down))

	return cmd
}

func migrateDirectionCommand(p *paydocsInstance, use string, direction migrate.MigrationDirection) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("apply migrations %s", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.ConnectDB(p.cnf.DataSource.Dns)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer db.Close()

			n, err := runMigrations(db, direction)
			if err != nil {
				return fmt.Errorf("error migrating %s: %w", use, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations %s!\n", n, use)
			return nil
		},
	}
}
