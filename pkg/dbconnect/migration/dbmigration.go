package migration

import (
	"database/sql"
	"fmt"

	"storecatalog/pkg/dbconnect"
)

type MigrationInterface interface {
	UpMigration(db *sql.DB, dialect dbconnect.Dialect) error
}

// Apply прогоняет миграции по порядку и останавливается на первой ошибке.
func Apply(db *sql.DB, dialect dbconnect.Dialect, migrations ...MigrationInterface) error {
	for _, m := range migrations {
		if err := m.UpMigration(db, dialect); err != nil {
			return fmt.Errorf("migration %T failed: %w", m, err)
		}
	}
	return nil
}
