// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "tradekit", "logs", "tradekit.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	// Console writer
	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					switch ll {
					case "debug":
						return "\033[36mDBG\033[0m"
					case "info":
						return "\033[32mINF\033[0m"
					case "warn":
						return "\033[33mWRN\033[0m"
					case "error":
						return "\033[31mERR\033[0m"
					default:
						return ll
					}
				}
				return "???"
			},
		}
		writers = append(writers, consoleWriter)
	}

	// File writer with rotation
	if cfg.File {
		// Ensure log directory exists
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	// Create multi-writer
	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stderr
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	// Set log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Create logger
	logger := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithRun adds a check run index to the logger context.
func WithRun(logger zerolog.Logger, run int) zerolog.Logger {
	return logger.With().Int("run", run).Logger()
}

// LogOrder logs an order creation or status change.
func LogOrder(logger zerolog.Logger, symbol, orderType, status string, qty float64) {
	logger.Info().
		Str("event", "order").
		Str("symbol", symbol).
		Str("type", orderType).
		Str("status", status).
		Float64("qty", qty).
		Msg("Order update")
}

// LogFill logs a fill applied to an order.
func LogFill(logger zerolog.Logger, symbol string, fillQty, remaining float64, status string) {
	logger.Info().
		Str("event", "fill").
		Str("symbol", symbol).
		Float64("fill_qty", fillQty).
		Float64("remaining", remaining).
		Str("status", status).
		Msg("Order filled")
}

// LogTrade logs an execution record.
func LogTrade(logger zerolog.Logger, symbol string, qty, price, fee, commission float64) {
	logger.Info().
		Str("event", "trade").
		Str("symbol", symbol).
		Float64("qty", qty).
		Float64("price", price).
		Float64("fee", fee).
		Float64("commission", commission).
		Msg("Trade recorded")
}

// LogQuote logs a bid/ask snapshot.
func LogQuote(logger zerolog.Logger, symbol string, bid, ask float64, bidSize, askSize int) {
	logger.Debug().
		Str("event", "quote").
		Str("symbol", symbol).
		Float64("bid", bid).
		Float64("ask", ask).
		Int("bid_size", bidSize).
		Int("ask_size", askSize).
		Msg("Quote observed")
}
