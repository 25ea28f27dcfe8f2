package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "ovumcy.log"

// Options controls the global logger. An empty Folder disables the file sink.
type Options struct {
	Level  string
	Folder string
}

// Init sets the global zerolog logger: a console writer on stderr, coloured
// only on a terminal, plus a rotating JSON file when a folder is configured.
func Init(options Options) (zerolog.Logger, error) {
	zerolog.SetGlobalLevel(ParseLevel(options.Level))

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}}

	if options.Folder != "" {
		if err := os.MkdirAll(options.Folder, 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("create log directory %q: %w", options.Folder, err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(options.Folder, logFileName),
			MaxSize:    16, // megabytes
			MaxBackups: 8,
			MaxAge:     90, // days
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return log.Logger, nil
}

// ParseLevel maps LOG_LEVEL to a zerolog level, defaulting to info.
func ParseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
