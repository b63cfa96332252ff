package db

import "embed"

// MigrationFS embeds the SQL migrations applied by internal/db/migrate (cmd/migrate and the server's -migrate flag).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
