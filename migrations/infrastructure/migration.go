package infrastructure

import (
	"database/sql"
	"fmt"

	"storecatalog/pkg/dbconnect"
)

const MetadataMigration = "metadata"

// MigrationsTable - учёт применённых миграций. Должна идти первой.
type MigrationsTable struct{}

func (m *MigrationsTable) UpMigration(db *sql.DB, _ dbconnect.Dialect) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS schema_migrations (
            name VARCHAR(255) PRIMARY KEY,
            time TIMESTAMP NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

type Metadata struct{}

// UpMigration - создает таблицу metadata, если она еще не существует.
func (m *Metadata) UpMigration(db *sql.DB, dialect dbconnect.Dialect) error {
	if ok, err := CheckAndSkipMigration(db, dialect, MetadataMigration); err != nil {
		return err
	} else if ok {
		return nil
	}

	query := `
		CREATE TABLE IF NOT EXISTS metadata (
		    key_name VARCHAR(255) PRIMARY KEY,
		    value TEXT,
		    last_update TIMESTAMP
		);
	`
	return ExecuteAndMarkMigration(db, dialect, query, MetadataMigration)
}

func CheckAndSkipMigration(db *sql.DB, dialect dbconnect.Dialect, migrationName string) (bool, error) {
	var count int
	err := db.QueryRow(dialect.Rebind("SELECT COUNT(*) FROM schema_migrations WHERE name = ?"), migrationName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

func ExecuteAndMarkMigration(db *sql.DB, dialect dbconnect.Dialect, query string, migrationName string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec(query); err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err = tx.Exec(dialect.Rebind("INSERT INTO schema_migrations (name, time) VALUES (?, CURRENT_TIMESTAMP)"), migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return tx.Commit()
}
