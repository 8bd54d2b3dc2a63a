package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb/storage"
	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/parser"
	"github.com/dice-group/owlgo/reasoner"
	"github.com/dice-group/owlgo/reasoner/neural"
)

var (
	retrieveNeural  bool
	retrieveDirect  bool
	retrieveNoCache bool
)

// RetrieveCmd represents the retrieve command
var RetrieveCmd = &cobra.Command{
	Use:   "retrieve FILE",
	Short: "Retrieve instances of a class expression",
	Long: `Retrieve instances of a class expression.

The expression is read from a YAML file with one operator key per node:

  and:
    - class: http://example.org/Person
    - some:
        property: http://example.org/knows
        filler:
          class: http://example.org/Engineer

With --neural the expression is evaluated against the trained embedding
model instead of the fact store.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieveCommand,
}

func init() {
	RetrieveCmd.Flags().BoolVarP(&retrieveNeural, "neural", "n", false, "Use the embedding-model backend")
	RetrieveCmd.Flags().BoolVar(&retrieveDirect, "direct", false, "Only directly asserted class members")
	RetrieveCmd.Flags().BoolVar(&retrieveNoCache, "no-cache", false, "Disable per-source memoization")
}

func runRetrieveCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "read expression file %s", args[0])
	}
	expr, err := parser.ParseClassExpression(data)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()

	var retriever reasoner.InstanceRetriever
	if retrieveNeural {
		embStore, err := neural.NewEmbeddingStore(conn, cfg.Embedding.Dimension, logger.Logger)
		if err != nil {
			return err
		}
		oracle, err := embStore.LoadOracle(ctx, cfg.Embedding.Gamma, cfg.Embedding.Dimension)
		if err != nil {
			return err
		}
		retriever = neural.New(oracle)
	} else {
		store, err := storage.NewTripleStore(conn, logger.Logger).Load(ctx)
		if err != nil {
			return err
		}
		var opts []reasoner.Option
		if retrieveDirect || cfg.Reasoner.Direct {
			opts = append(opts, reasoner.WithDirectInstances())
		}
		if retrieveNoCache || !cfg.Reasoner.Cache {
			opts = append(opts, reasoner.WithoutCache())
		}
		retriever = reasoner.New(store, opts...)
	}

	result := reasoner.InstancesWithTimeout(ctx, retriever, expr, cfg.Reasoner.Timeout)
	if result.Err != nil {
		return result.Err
	}
	if result.TimedOut {
		fmt.Fprintf(os.Stderr, "Warning: retrieval timed out after %s, result may be incomplete\n", cfg.Reasoner.Timeout)
	}

	for _, iri := range result.Individuals.SortedIRIs() {
		fmt.Println(iri)
	}
	return nil
}
