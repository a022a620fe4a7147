package postgres

import (
	"embed"

	pkgpostgres "github.com/Shreyashgol/genAI-capstone-project/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the churn schema migrations. They are read from dir
// when it is set and from the copies compiled into the binary otherwise.
func Migrations(dir string) pkgpostgres.Migrations {
	return pkgpostgres.Migrations{Dir: dir, FS: migrationFiles, Path: "migrations"}
}
