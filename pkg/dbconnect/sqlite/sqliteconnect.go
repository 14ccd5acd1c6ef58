package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"storecatalog/config"
	"storecatalog/pkg/dbconnect"
)

// SqliteDatabase - встроенный файл каталога. Одно соединение: sqlite сериализует запись сам,
// а лишние соединения дают только "database is locked".
type SqliteDatabase struct {
	config.SqliteConfig
	db *sql.DB
	mu sync.Mutex
}

func NewSqliteConnector(cfg config.SqliteConfig) *SqliteDatabase {
	return &SqliteDatabase{SqliteConfig: cfg}
}

func (s *SqliteDatabase) Dialect() dbconnect.Dialect {
	return dbconnect.SqliteDialect{}
}

func (s *SqliteDatabase) Connect() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if s.Path == "" {
		return nil, errors.New("sqlite path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	s.db = db
	return s.db, nil
}

func (s *SqliteDatabase) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("database connection is not established")
	}
	return s.db.Ping()
}

func (s *SqliteDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
