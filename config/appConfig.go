package config

import (
	"time"
)

// RemoteConfig - доступ к удалённому Data API каталога. Учётные данные задаются только конфигом.
type RemoteConfig struct {
	Host     string `yaml:"host" env:"HOST" validate:"required,url"`
	Database string `yaml:"database" env:"DATABASE" validate:"required"`
	Layout   string `yaml:"layout" env:"LAYOUT" validate:"required"`
	Username string `yaml:"username" env:"USERNAME" validate:"required"`
	Password string `yaml:"password" env:"PASSWORD"`

	PageSize           int           `yaml:"page_size" env:"PAGE_SIZE" validate:"min=1,max=10000"`
	Timeout            time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RequestsPerSecond  float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst              int           `yaml:"burst" env:"BURST" validate:"min=1"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" env:"INSECURE_SKIP_VERIFY"`
}

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type StoreConfig struct {
	Driver string       `yaml:"driver" env:"STORE_DRIVER" validate:"oneof=sqlite postgres"`
	Sqlite SqliteConfig `yaml:"sqlite"`
}

type ServerConfig struct {
	Address        string `yaml:"address" env:"SERVER_ADDRESS" validate:"required"`
	JWTSecret      string `yaml:"jwt_secret" env:"JWT_SECRET"`
	CurrencySymbol string `yaml:"currency_symbol" env:"CURRENCY_SYMBOL"`
}

type SyncConfig struct {
	OnStart bool `yaml:"on_start" env:"SYNC_ON_START"`
}
