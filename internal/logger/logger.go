// Package logger owns the process-wide zap logger. Components log through Log with
// structured fields; plain leveled messages go through Write.
package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger. It discards everything until Init is called.
var Log = zap.NewNop()

var logFile *os.File

// Level is the severity accepted by Write.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Critical
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unrecognised names yield Debug and false.
func ParseLevel(name string) (Level, bool) {
	for l := Debug; l <= Critical; l++ {
		if l.String() == name {
			return l, true
		}
	}
	return Debug, false
}

func (l Level) zapLevel() (zapcore.Level, bool) {
	switch l {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warning:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	case Critical:
		// DPanic only panics on development loggers, which Init never builds.
		return zapcore.DPanicLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Options selects the sinks. Console and file output are independent.
type Options struct {
	Console  bool
	File     bool
	FilePath string
	MinLevel Level
}

func DefaultOptions() Options {
	return Options{
		Console:  true,
		File:     true,
		FilePath: "log.txt",
		MinLevel: Debug,
	}
}

// Init replaces Log with a logger writing to the enabled sinks. The log file is
// truncated at startup and written unbuffered, one entry per write. A log file that
// cannot be opened is reported but leaves the console sink in place.
func Init(opts Options) error {
	minLevel, ok := opts.MinLevel.zapLevel()
	if !ok {
		minLevel = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	var cores []zapcore.Core
	var fileErr error
	if opts.Console {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), minLevel))
	}
	if opts.File {
		path := opts.FilePath
		if path == "" {
			path = DefaultOptions().FilePath
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			fileErr = fmt.Errorf("open log file %s: %w", path, err)
		} else {
			closeFile()
			logFile = f
			cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(f), minLevel))
		}
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
		return fileErr
	}
	Log = zap.New(zapcore.NewTee(cores...))
	Log.Info("[CORE] App started", zap.String("at", time.Now().Format("15:04:05")))
	if fileErr != nil {
		Log.Error("File logging disabled", zap.Error(fileErr))
	}
	return fileErr
}

// Write logs message at level. Levels outside the known range land in the UNKNOWN bucket.
func Write(level Level, message string) {
	zl, ok := level.zapLevel()
	if !ok {
		Log.Info(message, zap.String("bucket", level.String()), zap.Int("level", int(level)))
		return
	}
	if ce := Log.Check(zl, message); ce != nil {
		ce.Write()
	}
}

// Sync flushes and closes the file sink.
func Sync() {
	_ = Log.Sync()
	closeFile()
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05"))
	}
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		switch l {
		case zapcore.WarnLevel:
			enc.AppendString("WARNING")
		case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
			enc.AppendString("CRITICAL")
		default:
			enc.AppendString(l.CapitalString())
		}
	}
	return cfg
}
