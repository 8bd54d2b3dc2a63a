package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dice-group/owlgo/errors"
)

// DbCmd represents the db command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SQLite knowledge base",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		fmt.Printf("Database ready at %s\n", cfg.Database.Path)
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		tables := []string{
			"individuals",
			"class_assertions",
			"subclass_of",
			"object_assertions",
			"subproperty_of",
			"data_assertions",
			"embeddings",
		}
		for _, table := range tables {
			var count int
			if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
				return errors.Wrapf(err, "count %s", table)
			}
			fmt.Printf("%-20s %d\n", table, count)
		}
		return nil
	},
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}
