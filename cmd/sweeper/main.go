package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/session"
)

var (
	log = logrus.New()

	presetName string
)

func init() {
	const usage = "starting preset: beginner, intermediate, expert or height=H&width=W&mine_count=M"
	flag.StringVar(&presetName, "preset", "", usage)
	flag.StringVar(&presetName, "p", "", usage+" (shorthand)")
}

func setupLogging() error {
	return logging.Setup(
		logging.Options{
			Path:        config.LogFile(),
			Development: config.Development(),
		},
		log, mines.Log, session.Log,
	)
}

func setupRecords(ctx context.Context) (session.Option, func()) {
	pool, err := database.ConnectAndMigrate(ctx)
	if errors.Is(err, config.ErrNoDatabase) {
		log.Info("no database configured, records disabled")
		return nil, func() {}
	}
	if err != nil {
		log.WithError(err).Warn("records disabled")
		fmt.Fprintln(os.Stderr, "warning: records disabled:", err)
		return nil, func() {}
	}
	log.Info("records enabled")
	return session.WithRecordStore(repository.New(pool)), pool.Close
}

func run() error {
	flag.Parse()

	dotenvErr := config.LoadDotEnv()

	if err := setupLogging(); err != nil {
		return err
	}
	if dotenvErr != nil {
		log.Debug(dotenvErr)
	}

	if presetName == "" {
		presetName = config.Preset()
	}
	preset, err := mines.ResolvePreset(presetName)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"preset":      preset.Name,
		"params":      preset.GameParams.String(),
		"development": config.Development(),
	}).Info("starting up")

	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	var options []session.Option
	recordsOption, closeRecords := setupRecords(mainCtx)
	defer closeRecords()
	if recordsOption != nil {
		options = append(options, recordsOption)
	}

	sess, err := session.New(os.Stdout, preset, options...)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		defer stop()
		return sess.Run(gCtx, os.Stdin)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Error("exit reason: ", err)
		fmt.Fprintln(os.Stderr, "sweeper:", err)
		os.Exit(1)
	}
}
