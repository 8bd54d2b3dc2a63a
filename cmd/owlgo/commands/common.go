// Package commands implements the owlgo CLI subcommands.
package commands

import (
	"database/sql"

	"github.com/dice-group/owlgo/config"
	"github.com/dice-group/owlgo/db"
	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/logger"
)

// ConfigPath is the --config flag value, set by the root command.
var ConfigPath string

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return cfg, nil
}

// openDatabase opens and migrates the configured database.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	return db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
}
