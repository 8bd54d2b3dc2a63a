package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb"
	"github.com/dice-group/owlgo/kb/storage"
	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/parser"
	"github.com/dice-group/owlgo/reasoner"
)

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-evaluate a class expression whenever the knowledge base changes",
	Long: `Re-evaluate a class expression whenever the knowledge base changes.

The expression is evaluated once immediately, then again after every write
to the database file, until interrupted. External writers (another owlgo
process, sqlite3) trigger re-evaluation automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCommand,
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
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
	tripleStore := storage.NewTripleStore(conn, logger.Logger)

	evaluate := func(store *kb.MemStore) error {
		result := reasoner.InstancesWithTimeout(ctx, reasoner.New(store), expr, cfg.Reasoner.Timeout)
		if result.Err != nil {
			return result.Err
		}
		if result.TimedOut {
			fmt.Fprintf(os.Stderr, "Warning: retrieval timed out after %s\n", cfg.Reasoner.Timeout)
		}
		fmt.Printf("--- %d instances\n", result.Individuals.Len())
		for _, iri := range result.Individuals.SortedIRIs() {
			fmt.Println(iri)
		}
		return nil
	}

	store, err := tripleStore.Load(ctx)
	if err != nil {
		return err
	}
	if err := evaluate(store); err != nil {
		return err
	}

	watcher, err := storage.NewFileWatcher(tripleStore, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnReload(func(reloaded *kb.MemStore) error {
		return evaluate(reloaded)
	})
	watcher.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	return nil
}
