// Package logging configures the tool's zap logger: human-readable
// console output on stderr plus a timestamped debug log file per run,
// with old run logs pruned beyond a retention count.
//
// Console output goes to stderr only; stdout is reserved for eval-able
// shell script emitted by the bootstrap command.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sitar-eda/sitar/internal/branding"
)

// DefaultBackupCount is how many run logs are kept before the oldest are
// deleted.
const DefaultBackupCount = 20

const fileTimestamp = "2006-01-02_15-04-05"

// Dir returns the log directory, ~/.sitar/logs by default, overridable via
// SITAR_LOG_DIR.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("LOG_DIR")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir(), "logs")
	}
	return filepath.Join(home, branding.HomeDir(), "logs")
}

// New builds the logger: a console core on stderr (Info, or Debug when
// debug is set) and a per-run file core at Debug under dir. Older run
// logs beyond keep are removed first. A file-core failure degrades to
// console-only logging rather than failing the command.
func New(dir string, debug bool, keep int) *zap.Logger {
	consoleLevel := zapcore.InfoLevel
	if debug {
		consoleLevel = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "" // console lines carry no timestamp; the file does
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		consoleLevel,
	)

	fileCore, err := newFileCore(dir, keep)
	if err != nil {
		logger := zap.New(consoleCore)
		logger.Debug("file logging disabled", zap.Error(err))
		return logger
	}
	return zap.New(zapcore.NewTee(consoleCore, fileCore))
}

// newFileCore opens a fresh timestamped log file under dir and prunes old
// run logs.
func newFileCore(dir string, keep int) (zapcore.Core, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	if keep <= 0 {
		keep = DefaultBackupCount
	}
	if err := Prune(dir, keep-1); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s.log", branding.CLIName(), time.Now().Format(fileTimestamp))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(f), zapcore.DebugLevel), nil
}

// Prune deletes the oldest *.log files in dir so that at most keep remain.
func Prune(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %s: %w", dir, err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".log" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{filepath.Join(dir, e.Name()), info.ModTime()})
	}

	if keep < 0 {
		keep = 0
	}
	if len(files) <= keep {
		return nil
	}

	// Most recent first; everything past keep goes.
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })
	for _, f := range files[keep:] {
		if err := os.Remove(f.path); err != nil {
			return fmt.Errorf("removing old log %s: %w", f.path, err)
		}
	}
	return nil
}
