package cli

import (
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zapcore"

	"github.com/workmate-dev/workmate/pkg/chat/config"
)

// newLogger builds the zap-backed logr sink. Logs go to a file rather than
// the terminal: in chat mode the screen belongs to the TUI.
func newLogger(cfg config.LoggingConfig) (logr.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return logr.Discard(), nil, err
	}

	path := cfg.File
	if path == "" {
		path = filepath.Join(config.DefaultDataDir(), "workmate.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return logr.Discard(), nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}

	zlog, err := zcfg.Build()
	if err != nil {
		return logr.Discard(), nil, err
	}

	return zapr.NewLogger(zlog), func() { _ = zlog.Sync() }, nil
}
