package config

import (
	"fmt"
)

type DbConfig interface {
	GetConnectionString() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_NAME"`
	SSLMode  string `yaml:"sslmode" env:"POSTGRES_SSLMODE"`
}

func (pc *PostgresConfig) GetConnectionString() string {
	sslMode := pc.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, sslMode)
}

// SqliteConfig - путь к файлу встроенной базы.
type SqliteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH"`
}

func (sc *SqliteConfig) GetConnectionString() string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", sc.Path)
}
