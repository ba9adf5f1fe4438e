package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how the global logger writes
type Config struct {
	WithCaller bool
	Level      string
	LogFormat  string
	LogFile    string
}

// AddFlags registers the logging flags
func AddFlags(flags *pflag.FlagSet) {
	flags.Bool("with-caller", false, "Log caller")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, fatal)")
	flags.String("log-format", "text", "Log format (json, text)")
	flags.String("log-file", "", "Log file (default: stderr)")
}

// InitLogger configures the zerolog global logger
func InitLogger(config *Config) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// default is json
	var logWriter io.Writer
	if config.LogFormat == "text" {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	} else {
		logWriter = os.Stderr
	}

	if config.LogFile != "" {
		logWriter = io.MultiWriter(
			logWriter,
			zerolog.ConsoleWriter{
				NoColor: true,
				Out: &lumberjack.Logger{
					Filename:   config.LogFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, // days
				},
			})
	}

	logger = logger.Output(logWriter)
	if config.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	if config.Level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", config.Level)
	}
	zerolog.SetGlobalLevel(level)

	return nil
}
