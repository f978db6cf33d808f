// Package log provides the logger used across the engine, backed by zap.
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface every component receives at construction.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warning(args ...interface{})
	Warningf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	With(key string, value interface{}) Logger
	Sync() error
}

// DefaultLogger logs to stderr in development format at debug level.
var DefaultLogger = mustNew(zap.NewDevelopmentConfig())

// Config holds logger settings.
type Config struct {
	Level string `json:"level"`
	Name  string `json:"name"`
	// JSON switches the encoder from console to json.
	JSON bool `json:"json"`
}

var levels = map[string]zapcore.Level{
	"trace": zapcore.DebugLevel,
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

// ParseLevel returns zap level for the config level name.
func ParseLevel(level string) (zapcore.Level, error) {
	lvl, exist := levels[strings.ToLower(level)]
	if !exist {
		return zapcore.InfoLevel, fmt.Errorf("log level %s is not supported", level)
	}
	return lvl, nil
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger from config.
func NewLogger(config *Config) (Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if !config.JSON {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if config.Level != "" {
		lvl, err := ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	if config.Name != "" {
		logger = logger.Named(config.Name)
	}
	return &zapLogger{sugar: logger.Sugar()}, nil
}

// NewDefaultProductionLogger returns a logger at info level with console encoding.
func NewDefaultProductionLogger() (Logger, error) {
	return NewLogger(&Config{Level: "info"})
}

// NewSilentLogger returns a logger which discards every entry.
func NewSilentLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func mustNew(config zap.Config) Logger {
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return &zapLogger{sugar: logger.Sugar()}
}

func (l *zapLogger) Debug(args ...interface{}) {
	l.sugar.Debug(args...)
}

func (l *zapLogger) Debugf(template string, args ...interface{}) {
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Info(args ...interface{}) {
	l.sugar.Info(args...)
}

func (l *zapLogger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

func (l *zapLogger) Warning(args ...interface{}) {
	l.sugar.Warn(args...)
}

func (l *zapLogger) Warningf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

func (l *zapLogger) Error(args ...interface{}) {
	l.sugar.Error(args...)
}

func (l *zapLogger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}

func (l *zapLogger) Fatal(args ...interface{}) {
	l.sugar.Fatal(args...)
}

func (l *zapLogger) Fatalf(template string, args ...interface{}) {
	l.sugar.Fatalf(template, args...)
}

func (l *zapLogger) With(key string, value interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(key, value)}
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
