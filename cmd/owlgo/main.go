package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dice-group/owlgo/cmd/owlgo/commands"
	"github.com/dice-group/owlgo/config"
	"github.com/dice-group/owlgo/logger"
)

var rootCmd = &cobra.Command{
	Use:   "owlgo",
	Short: "owlgo - Class-expression instance retrieval over knowledge bases",
	Long: `owlgo - Class-expression instance retrieval over knowledge bases.

owlgo evaluates description-logic class expressions against a fact store
under closed-world semantics, or against a trained embedding model for
approximate retrieval.

Available commands:
  db       - Manage the SQLite knowledge base (migrate, stats)
  assert   - Load facts from a YAML file into the knowledge base
  retrieve - Retrieve instances of a class expression
  watch    - Re-evaluate an expression on every knowledge base change

Examples:
  owlgo db migrate                  # Create or upgrade the database schema
  owlgo assert facts.yaml           # Ingest facts
  owlgo retrieve query.yaml         # Evaluate a class expression
  owlgo retrieve -n query.yaml      # Evaluate with the neural backend`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs. A broken config
		// falls back to console output; the command surfaces the error.
		jsonOutput := false
		if cfg, err := config.Load(commands.ConfigPath); err == nil {
			jsonOutput = cfg.Log.JSON
		}
		if err := logger.Initialize(jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigPath, "config", "c", "", "Path to TOML config file")

	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AssertCmd)
	rootCmd.AddCommand(commands.RetrieveCmd)
	rootCmd.AddCommand(commands.WatchCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
