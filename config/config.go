package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"storecatalog/pkg/logger"
)

type AppConfig struct {
	Remote   RemoteConfig   `yaml:"remote" envPrefix:"REMOTE_"`
	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Server   ServerConfig   `yaml:"server"`
	Sync     SyncConfig     `yaml:"sync"`
	Log      logger.Config  `yaml:"log"`
}

func Default() *AppConfig {
	return &AppConfig{
		Remote: RemoteConfig{
			PageSize:          100,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 10,
			Burst:             1,
		},
		Store: StoreConfig{
			Driver: DriverSqlite,
			Sqlite: SqliteConfig{Path: "data/catalog.db"},
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "postgres",
		},
		Server: ServerConfig{
			Address:        ":8081",
			CurrencySymbol: "L.",
		},
		Log: logger.DefaultConfig(),
	}
}

// LoadConfig: значения по умолчанию -> yaml файл (если задан) -> переменные окружения (.env тоже) -> валидация.
func LoadConfig(filename string) (*AppConfig, error) {
	config := Default()

	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
