package comments

import "embed"

// Migrations holds the goose migrations for the comments table under
// MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
