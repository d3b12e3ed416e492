package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/queryscope/internal/config"
	"github.com/kalambet/queryscope/internal/corpus"
	"github.com/kalambet/queryscope/internal/pipeline"
	"github.com/kalambet/queryscope/internal/recommend"
)

// newRunner wires a Runner from config; caller owns the returned store.
func newRunner() (*pipeline.Runner, *corpus.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, config.Config{}, err
	}
	initLogging(cfg)

	store, err := corpus.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("opening corpus store: %w", err)
	}

	runner := pipeline.NewRunner(store, pipeline.Options{
		OutputDir:    cfg.Storage.OutputDir,
		TopK:         cfg.Pipeline.TopK,
		Observations: cfg.Pipeline.Observations,
		Seed:         cfg.Pipeline.Seed,
	})
	return runner, store, cfg, nil
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the corpus database with synthetic observations and sample queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, store, cfg, err := newRunner()
		if err != nil {
			return err
		}
		defer store.Close()

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			printStep("Clearing existing query log...")
			if err := store.PurgeQueries(); err != nil {
				return err
			}
		}

		printStep("Seeding corpus database...")
		if err := runner.SeedStep(cmd.Context()); err != nil {
			return err
		}

		n, err := store.CountQueries()
		if err != nil {
			return err
		}
		printSuccess("Corpus ready: %d queries in %s", n, cfg.Storage.DataDir)
		return nil
	},
}

// --- parse ---

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract features and vectorize the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, store, cfg, err := newRunner()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.CountQueries()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("query log is empty, run `queryscope seed` first")
		}

		printStep("Parsing %d queries...", n)
		artifact, err := runner.ParseStep(cmd.Context())
		if err != nil {
			return err
		}

		printSuccess("Feature matrix: %d × %d", len(artifact.FeatureMatrix), len(artifact.FeatureNames))
		printStatus("Tables", "%v", artifact.Vocabularies.Tables)
		printStatus("Users", "%v", artifact.Vocabularies.Users)
		printStatus("Aggregations", "%v", artifact.Vocabularies.Aggregations)
		printSuccess("Saved to %s", filepath.Join(cfg.Storage.OutputDir, "queries", "parsed_features.json"))
		return nil
	},
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Normalize features and compute distance matrices",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, store, cfg, err := newRunner()
		if err != nil {
			return err
		}
		defer store.Close()

		parsed, err := pipeline.LoadParsedArtifact(cfg.Storage.OutputDir)
		if err != nil {
			return fmt.Errorf("loading parsed features (run `queryscope parse` first): %w", err)
		}

		printStep("Computing distance matrices...")
		dist, err := runner.AnalyzeStep(cmd.Context(), parsed)
		if err != nil {
			return err
		}

		printSuccess("Computed %d distance matrices: %v", len(dist.Metrics), dist.Metrics)
		return nil
	},
}

// --- recommend ---

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print similar queries for a seed query, with explanations",
	RunE: func(cmd *cobra.Command, args []string) error {
		seedIdx, _ := cmd.Flags().GetInt("seed")
		k, _ := cmd.Flags().GetInt("k")
		metric, _ := cmd.Flags().GetString("metric")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		initLogging(cfg)
		if k <= 0 {
			k = cfg.Pipeline.TopK
		}
		if metric == "" {
			metric = cfg.Pipeline.DefaultMetric
		}

		parsed, err := pipeline.LoadParsedArtifact(cfg.Storage.OutputDir)
		if err != nil {
			return fmt.Errorf("loading parsed features (run `queryscope parse` first): %w", err)
		}
		dist, err := pipeline.LoadDistanceArtifact(cfg.Storage.OutputDir)
		if err != nil {
			return fmt.Errorf("loading distance matrices (run `queryscope analyze` first): %w", err)
		}

		rec, err := recommend.New(dist.DistanceMatrices, parsed.ParsedQueries)
		if err != nil {
			return err
		}

		resolved := rec.ResolveMetric(metric)
		if resolved != metric {
			printWarning("metric %q not available, using %q", metric, resolved)
		}

		recs, err := rec.Recommend(seedIdx, k, resolved)
		if err != nil {
			return err
		}

		seed := parsed.ParsedQueries[seedIdx]
		fmt.Printf("%s %s\n", colorize(colorBold, "Seed query:"), seed.SQL)
		fmt.Printf("  %s (%s)\n\n", seed.Description, seed.User)

		for i, r := range recs {
			neighbor := parsed.ParsedQueries[r.Index]
			fmt.Printf("%s [distance: %.3f]\n", colorize(colorBold, fmt.Sprintf("Recommendation %d", i+1)), r.Distance)
			fmt.Printf("  %s\n", neighbor.SQL)
			fmt.Printf("  %s\n\n", colorize(colorCyan, r.Explanation))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("reset", false, "clear the query log before seeding")
	recommendCmd.Flags().Int("seed", 0, "corpus position of the seed query")
	recommendCmd.Flags().Int("k", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().String("metric", "", "distance metric (default from config)")
}

// --- run ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: seed, parse, analyze, recommend",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, store, cfg, err := newRunner()
		if err != nil {
			return err
		}
		defer store.Close()

		printStep("Running pipeline...")
		meta, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}

		printSuccess("Pipeline complete in %s", meta.Duration.Round(time.Millisecond))
		printStatus("Queries", "%d", meta.Queries)
		printStatus("Feature matrix", "%d × %d", meta.MatrixRows, meta.MatrixCols)
		printStatus("Metrics", "%v", meta.Metrics)
		printStatus("Outputs", "%s", cfg.Storage.OutputDir)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus, artifact, and server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := corpus.Open(cfg.Storage.DataDir)
		if err != nil {
			printStatus("Corpus", "unavailable (%v)", err)
		} else {
			defer store.Close()
			queries, _ := store.CountQueries()
			observations, _ := store.CountObservations()
			printStatus("Corpus", "%d queries, %d observations", queries, observations)
		}

		for _, artifact := range []struct{ label, path string }{
			{"Parsed features", filepath.Join(cfg.Storage.OutputDir, "queries", "parsed_features.json")},
			{"Distance matrices", filepath.Join(cfg.Storage.OutputDir, "topological_features.json")},
			{"Recommendations", filepath.Join(cfg.Storage.OutputDir, "recommendations", "recommendations.json")},
		} {
			if _, err := os.Stat(artifact.path); err == nil {
				printStatus(artifact.label, "present")
			} else {
				printStatus(artifact.label, "missing")
			}
		}

		printStatus("Server", "%s", probeServer(cfg))
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}
