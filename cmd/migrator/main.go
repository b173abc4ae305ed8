package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
)

var (
	log = logrus.New()

	rollback int
)

func init() {
	flag.IntVar(&rollback, "down", 0, "roll back this many migrations instead of migrating up")
}

func main() {
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Debug(err)
	}
	if config.Development() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	url, err := config.DbURL()
	if err != nil {
		log.WithError(err).Error("failed to load database config")
		os.Exit(1)
	}

	var status database.MigrationStatus
	if rollback > 0 {
		status, err = database.Rollback(url, database.Migrations, rollback)
	} else {
		status, err = database.Migrate(url, database.Migrations)
	}
	if err != nil {
		log.WithError(err).Error("migration failed")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": status.Version,
		"dirty":   status.Dirty,
	}).Info("migration successful")
}
