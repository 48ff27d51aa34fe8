package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10
	maxBack = 5
	maxAge  = 30
)

// NewLogger builds a zerolog logger writing to the console and, when filePath
// is set, to a rotating log file.
func NewLogger(filePath, serviceName, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	writers := []io.Writer{consoleWriter}

	if filePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    maxSize, // megabytes
			MaxBackups: maxBack,
			MaxAge:     maxAge, // days
			Compress:   true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger().
		Level(lvl)

	logger.Info().
		Str("logsFilePath", filePath).
		Str("serviceName", serviceName).
		Msg("Logger initialized")

	return logger, nil
}
