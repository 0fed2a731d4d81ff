// Package logger holds the process-wide structured logger.
//
// Output always goes to stderr: when the binary runs as an MCP server,
// stdout carries the protocol stream and must not be written to.
package logger

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// packages can log unconditionally, including from tests.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize builds the global logger.
//
// level is one of debug, info, warn, error (case-insensitive, empty means
// info). When jsonOutput is set, lines are JSON encoded for machine
// consumption; otherwise a console encoder is used.
func Initialize(level string, jsonOutput bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var encoder zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	Logger = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

// ParseLevel maps a textual level to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, errors.Newf("unknown log level %q", level)
	}
}

// Sync flushes buffered log entries. Errors from syncing stderr are ignored
// because some terminals reject fsync.
func Sync() {
	_ = Logger.Sync()
}
