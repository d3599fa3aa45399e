package main

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/debug"
	"github.com/standardbeagle/ontomatch/internal/filter"
	"github.com/standardbeagle/ontomatch/internal/knowledge"
	"github.com/standardbeagle/ontomatch/internal/match"
	"github.com/standardbeagle/ontomatch/internal/metrics"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/oracle"
	"github.com/standardbeagle/ontomatch/internal/pipeline"
	"github.com/standardbeagle/ontomatch/internal/semantic"
)

// loadOntologies reads the --source and --target files
func loadOntologies(c *cli.Context, cfg *config.Config) (*ontology.Ontology, *ontology.Ontology, error) {
	normalize := semantic.NewNormalizer(cfg.Semantic.CacheSize).Normalize
	source, err := ontology.LoadFile(c.String("source"), normalize)
	if err != nil {
		return nil, nil, err
	}
	target, err := ontology.LoadFile(c.String("target"), normalize)
	if err != nil {
		return nil, nil, err
	}
	debug.Log("CLI", "loaded %s (%d entities) and %s (%d entities)", source.URI, source.Size(), target.URI, target.Size())
	return source, target, nil
}

func newOracle(c *cli.Context, cfg *config.Config) (oracle.Oracle, error) {
	switch cfg.Oracle.Mode {
	case "reference":
		ref, err := alignment.LoadFile(cfg.Oracle.Reference)
		if err != nil {
			return nil, err
		}
		return oracle.NewReference(ref, cfg.Oracle.QueryLimit), nil
	case "console":
		return oracle.NewConsole(c.App.Reader, c.App.ErrWriter), nil
	default:
		return oracle.None{}, nil
	}
}

// writeAlignment saves to --output, or prints to stdout when it is unset
func writeAlignment(c *cli.Context, a *alignment.Alignment) error {
	if path := c.String("output"); path != "" {
		return a.SaveFile(path)
	}
	return a.WriteJSON(c.App.Writer)
}

func matchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	source, target, err := loadOntologies(c, cfg)
	if err != nil {
		return err
	}
	orc, err := newOracle(c, cfg)
	if err != nil {
		return err
	}

	catalog := knowledge.NewCatalog(cfg.Knowledge)
	normalize := semantic.NewNormalizer(cfg.Semantic.CacheSize).Normalize
	task := ontology.NewTask(source, target, cfg.Task,
		ontology.WithResolver(catalog),
		ontology.WithNormalizer(normalize))

	var opts []pipeline.Option
	var reg *prometheus.Registry
	if c.String("metrics-file") != "" {
		reg = prometheus.NewRegistry()
		rec, err := metrics.NewRecorder(reg)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithRecorder(rec))
	}

	am, err := pipeline.New(pipeline.Collaborators{
		Task:     task,
		Matchers: match.NewSuite(source, target, catalog, cfg),
		Oracle:   orc,
		Checker:  ontology.NewDisjointnessChecker(source, target),
	}, cfg, opts...)
	if err != nil {
		return err
	}

	res, err := am.Run(c.Context)
	if err != nil {
		return err
	}
	debug.Log("CLI", "run %s: %s/%s task, %d mappings at threshold %.2f",
		res.RunID, res.Size, res.Language, res.Alignment.Len(), res.Thresholds.Main)

	if reg != nil {
		if err := prometheus.WriteToTextfile(c.String("metrics-file"), reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return writeAlignment(c, res.Alignment)
}

func evaluateCommand(c *cli.Context) error {
	a, err := alignment.LoadFile(c.String("alignment"))
	if err != nil {
		return err
	}
	ref, err := alignment.LoadFile(c.String("reference"))
	if err != nil {
		return err
	}

	eval := metrics.Evaluate(a, ref)
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	}
	fmt.Fprintln(c.App.Writer, eval.String())
	return nil
}

func repairCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	source, target, err := loadOntologies(c, cfg)
	if err != nil {
		return err
	}
	a, err := alignment.LoadFile(c.String("alignment"), alignment.WithSameEntityMatching(cfg.Matching.SameEntity))
	if err != nil {
		return err
	}

	r := &filter.CardinalityRepairer{Checker: ontology.NewDisjointnessChecker(source, target)}
	repaired := r.Repair(a)
	if removed := a.Len() - repaired.Len(); removed > 0 {
		fmt.Fprintf(c.App.ErrWriter, "Removed %d conflicting mappings\n", removed)
	}
	return writeAlignment(c, repaired)
}

func sourcesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	sources, err := knowledge.NewCatalog(cfg.Knowledge).Sources()
	if err != nil {
		return err
	}
	for _, s := range sources {
		kind := "ontology"
		if knowledge.IsLexicon(s) {
			kind = "lexicon"
		}
		if s == cfg.Knowledge.DefaultSource {
			kind = "thesaurus"
		}
		fmt.Fprintf(c.App.Writer, "%-10s %s\n", kind, s)
	}
	return nil
}
