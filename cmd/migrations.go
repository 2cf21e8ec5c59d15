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
	"database/sql"

	"github.com/jerry-enebeli/paydocs"
	migrate "github.com/rubenv/sql-migrate"
)

func migrationSource() migrate.EmbedFileSystemMigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: paydocs.SQLFiles,
		Root:       "sql",
	}
}

// runMigrations records applied migrations in the paydocs schema, next to the archive tables.
func runMigrations(db *sql.DB, direction migrate.MigrationDirection) (int, error) {
	migrate.SetSchema(migrationSchema)
	return migrate.Exec(db, "postgres", migrationSource(), direction)
}
