package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb/storage"
	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/owl"
)

// factsFile is the YAML shape of an ingestion document.
type factsFile struct {
	Individuals []string `yaml:"individuals,omitempty"`
	Classes     []struct {
		Individual string `yaml:"individual"`
		Class      string `yaml:"class"`
	} `yaml:"classes,omitempty"`
	SubClassOf []struct {
		Child  string `yaml:"child"`
		Parent string `yaml:"parent"`
	} `yaml:"subclassOf,omitempty"`
	Relations []struct {
		Subject  string `yaml:"subject"`
		Property string `yaml:"property"`
		Object   string `yaml:"object"`
	} `yaml:"relations,omitempty"`
	SubPropertyOf []struct {
		Child  string `yaml:"child"`
		Parent string `yaml:"parent"`
	} `yaml:"subPropertyOf,omitempty"`
	Data []struct {
		Subject  string `yaml:"subject"`
		Property string `yaml:"property"`
		Value    string `yaml:"value"`
		Datatype string `yaml:"datatype,omitempty"`
	} `yaml:"data,omitempty"`
}

// AssertCmd represents the assert command
var AssertCmd = &cobra.Command{
	Use:   "assert FILE",
	Short: "Load facts from a YAML file into the knowledge base",
	Long: `Load facts from a YAML file into the knowledge base.

The file may carry individuals, class assertions, class and property
hierarchies, object property assertions and data property assertions:

  individuals:
    - http://example.org/alice
  classes:
    - {individual: http://example.org/alice, class: http://example.org/Person}
  relations:
    - {subject: http://example.org/alice, property: http://example.org/knows, object: http://example.org/bob}`,
	Args: cobra.ExactArgs(1),
	RunE: runAssertCommand,
}

func runAssertCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "read facts file %s", args[0])
	}

	var facts factsFile
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return errors.Wrapf(err, "unmarshal facts file %s", args[0])
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

	store := storage.NewTripleStore(conn, logger.Logger)
	ctx := cmd.Context()
	total := 0

	for _, iri := range facts.Individuals {
		if err := store.SaveIndividual(ctx, owl.NewIndividual(iri)); err != nil {
			return err
		}
		total++
	}
	for _, a := range facts.Classes {
		if err := store.SaveClassAssertion(ctx, owl.NewNamedClass(a.Class), owl.NewIndividual(a.Individual)); err != nil {
			return err
		}
		total++
	}
	for _, a := range facts.SubClassOf {
		if err := store.SaveSubClassOf(ctx, owl.NewNamedClass(a.Child), owl.NewNamedClass(a.Parent)); err != nil {
			return err
		}
		total++
	}
	for _, a := range facts.Relations {
		if err := store.SaveObjectAssertion(ctx,
			owl.NewIndividual(a.Subject),
			owl.NewObjectProperty(a.Property),
			owl.NewIndividual(a.Object)); err != nil {
			return err
		}
		total++
	}
	for _, a := range facts.SubPropertyOf {
		if err := store.SaveSubPropertyOf(ctx, owl.NewObjectProperty(a.Child), owl.NewObjectProperty(a.Parent)); err != nil {
			return err
		}
		total++
	}
	for _, a := range facts.Data {
		datatype := a.Datatype
		if datatype == "" {
			datatype = owl.XSDString
		}
		if err := store.SaveDataAssertion(ctx,
			owl.NewIndividual(a.Subject),
			owl.NewDataProperty(a.Property),
			owl.Literal{Lexical: a.Value, Datatype: datatype}); err != nil {
			return err
		}
		total++
	}

	fmt.Printf("Asserted %d facts into %s\n", total, cfg.Database.Path)
	return nil
}
