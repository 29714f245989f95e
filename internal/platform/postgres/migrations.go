package postgres

import "embed"

// Migrations holds the goose SQL migrations for the schema used by the
// stores in this package.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
