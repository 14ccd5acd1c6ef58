package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	out    *logrus.Logger
}

// NewLogger пишет текстовые логи в writer. nil writer глушит вывод.
func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	out := logrus.New()
	if writer == nil {
		writer = io.Discard
	}
	out.SetOutput(writer)
	out.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   true,
	})
	return &BaseLogger{
		prefix: prefix,
		out:    out,
	}
}

// New строит корневой логгер по конфигу: stdout и/или файл с ротацией через lumberjack.
func New(cfg Config, prefix string) (*BaseLogger, error) {
	out := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	out.SetLevel(level)

	if cfg.Format == "json" {
		out.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		out.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	var writers []io.Writer
	if cfg.Output == "" || cfg.Output == "stdout" || cfg.Output == "both" {
		writers = append(writers, os.Stdout)
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Path, cfg.File),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	out.SetOutput(io.MultiWriter(writers...))

	return &BaseLogger{
		prefix: prefix,
		out:    out,
	}, nil
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.out.Info(l.format(format, v...))
}

func (l *BaseLogger) Warn(format string, v ...interface{}) {
	l.out.Warn(l.format(format, v...))
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	l.out.Error(l.format(format, v...))
}

func (l *BaseLogger) format(format string, v ...interface{}) string {
	l.mu.Lock()
	prefix := l.prefix
	l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	if prefix == "" {
		return message
	}
	return prefix + " " + message
}

// WithPrefix возвращает логгер с тем же выводом и дополнительным префиксом.
func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := extraPrefix
	if l.prefix != "" {
		prefix = l.prefix + " " + extraPrefix
	}
	return &BaseLogger{
		prefix: prefix,
		out:    l.out,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) SetWriter(writer io.Writer) {
	l.out.SetOutput(writer)
}
