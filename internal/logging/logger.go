// Package logging builds the zap logger used for diagnostics. User-facing
// progress output is printed by the command layer, not logged.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string    // debug, info, warn or error
	Format      string    // console or json
	Verbose     bool      // Forces debug level
	OutputPaths []string  // Defaults to stderr
	Writer      io.Writer // Replaces OutputPaths when set
}

// New constructs a zap logger using the provided options.
func New(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	var cfg zap.Config
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if colorEnabled(outputs, opts.Writer) {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.DisableCaller = level > zapcore.DebugLevel
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.Writer != nil {
		return newWriterLogger(cfg, opts.Writer), nil
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newWriterLogger(cfg zap.Config, w io.Writer) *zap.Logger {
	var encoder zapcore.Encoder
	if cfg.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), cfg.Level)

	var opts []zap.Option
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

// colorEnabled reports whether every output is a terminal
func colorEnabled(outputs []string, w io.Writer) bool {
	if w != nil {
		f, ok := w.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
	for _, out := range outputs {
		var fd uintptr
		switch out {
		case "stderr":
			fd = os.Stderr.Fd()
		case "stdout":
			fd = os.Stdout.Fd()
		default:
			return false
		}
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}
	return true
}
