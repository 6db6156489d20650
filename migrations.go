// Package repcoach holds assets that ship inside the server binary.
package repcoach

import "embed"

// Migrations holds the PostgreSQL schema migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
