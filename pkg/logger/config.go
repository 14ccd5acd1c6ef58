package logger

// Config описывает вывод логов: уровень, формат и ротацию файла.
type Config struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=text json"`
	// Output: stdout, file, both
	Output string `yaml:"output" env:"LOG_OUTPUT" validate:"omitempty,oneof=stdout file both"`

	Path       string `yaml:"path" env:"LOG_PATH"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSize    int    `yaml:"max_size" env:"LOG_MAX_SIZE"` // MB
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" env:"LOG_MAX_AGE"` // days
	Compress   bool   `yaml:"compress" env:"LOG_COMPRESS"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		Path:       "./logs",
		File:       "catalog.log",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
	}
}
