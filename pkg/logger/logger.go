package logx

import (
	"io"
	"os"

	"github.com/Chative-support-poc/server/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// File, when set, receives a copy of every log line with size based rotation.
	File string
	// Output overrides the console destination (stderr by default).
	Output io.Writer
}

func safe(otps ...LoggerOpts) *LoggerOpts {
	if len(otps) == 0 {
		return DefaultLoggerOpts
	}
	return &otps[0]
}

func Init(otps ...LoggerOpts) {
	opts := safe(otps...)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var writers []io.Writer
	switch {
	case opts.Environment.IsProduction():
		writers = append(writers, out)
	case opts.Environment.IsTesting():
		writers = append(writers, zerolog.ConsoleWriter{Out: out, NoColor: true})
	default:
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = out }))
	}

	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	w := writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(w).With().Timestamp()
	if !opts.Environment.IsProduction() {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger().Level(opts.Environment.LogLevel())
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
