// Package logging sends logrus output to a rotating file, leaving the
// terminal to the game.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Options struct {
	Path        string
	Development bool
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

func (o Options) Level() logrus.Level {
	if o.Development {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Setup routes every logger through one rotating file hook. Loggers stop
// writing to their previous output.
func Setup(opts Options, loggers ...*logrus.Logger) error {
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 5
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 28
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Level:      opts.Level(),
		Formatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", opts.Path, err)
	}

	for _, log := range loggers {
		log.SetLevel(opts.Level())
		log.SetOutput(io.Discard)
		log.AddHook(hook)
	}
	return nil
}
