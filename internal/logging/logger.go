package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file written inside the log directory.
const FileName = "sync.log"

// NewLogger logs to <logDir>/sync.log and to stdout.
func NewLogger(logDir string) (*zap.Logger, error) {
	return New(logDir, os.Stdout)
}

// New builds a logger writing JSON lines to a rotating file in logDir and
// human-readable lines (timestamp, level, message, fields) to console.
func New(logDir string, console io.Writer) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.TimeKey = "ts"
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := zap.NewProductionEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleCfg.ConsoleSeparator = " - "
	consoleCfg.CallerKey = zapcore.OmitKey

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), file, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), zap.InfoLevel),
	)
	return zap.New(core), nil
}
