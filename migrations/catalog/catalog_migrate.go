package catalog

import (
	"database/sql"

	"storecatalog/migrations/infrastructure"
	"storecatalog/pkg/dbconnect"
	"storecatalog/pkg/dbconnect/migration"
)

const (
	ProductsMigration       = "catalog.products"
	ProductIndexesMigration = "catalog.products.indexes"
)

type ProductsTable struct{}

func (m *ProductsTable) UpMigration(db *sql.DB, dialect dbconnect.Dialect) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, dialect, ProductsMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		primary_barcode TEXT NOT NULL DEFAULT '',
		barcodes TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		stock DOUBLE PRECISION NOT NULL DEFAULT 0,
		price1 DOUBLE PRECISION NOT NULL DEFAULT 0,
		price2 DOUBLE PRECISION NOT NULL DEFAULT 0,
		price3 DOUBLE PRECISION NOT NULL DEFAULT 0,
		price4 DOUBLE PRECISION NOT NULL DEFAULT 0
	);`
	return infrastructure.ExecuteAndMarkMigration(db, dialect, query, ProductsMigration)
}

type ProductIndexes struct{}

func (m *ProductIndexes) UpMigration(db *sql.DB, dialect dbconnect.Dialect) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, dialect, ProductIndexesMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE INDEX IF NOT EXISTS products_name_idx ON products (name);
	CREATE INDEX IF NOT EXISTS products_primary_barcode_idx ON products (primary_barcode);
	`
	return infrastructure.ExecuteAndMarkMigration(db, dialect, query, ProductIndexesMigration)
}

// Migrations - полный набор для кэша каталога в порядке применения.
func Migrations() []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&infrastructure.MigrationsTable{},
		&infrastructure.Metadata{},
		&ProductsTable{},
		&ProductIndexes{},
	}
}
