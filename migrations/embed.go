// Package migrations embeds the SQL schema applied by sqlite.DB.RunMigrations.
package migrations

import "embed"

// FS holds the numbered *.up.sql migration files.
//
//go:embed *.up.sql
var FS embed.FS
