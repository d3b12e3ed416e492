// Package pipeline orchestrates the end-to-end similarity run: seed the
// corpus, extract features, vectorize, compute distances, and write explained
// recommendations. Each step is a bounded, synchronous transformation; the
// artifacts between steps are plain JSON files so downstream consumers
// (persistent-homology analysis, plotting) can pick them up without touching
// this process.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/queryscope/internal/corpus"
	"github.com/kalambet/queryscope/internal/distance"
	"github.com/kalambet/queryscope/internal/extract"
	"github.com/kalambet/queryscope/internal/recommend"
	"github.com/kalambet/queryscope/internal/vectorize"
)

// Options configure a pipeline run.
type Options struct {
	OutputDir    string
	Metrics      []string
	TopK         int
	ReportSeeds  []int
	Observations int
	Seed         int64
}

// DefaultReportSeeds are the corpus positions the recommendation report
// covers by default: one of each query pattern in the sample corpus.
var DefaultReportSeeds = []int{0, 5, 12, 15, 20}

// Runner executes pipeline steps against a corpus store.
type Runner struct {
	store *corpus.Store
	opts  Options
}

// RunMetadata captures counts and timings of a full pipeline run.
type RunMetadata struct {
	Queries     int
	MatrixRows  int
	MatrixCols  int
	Metrics     []string
	ReportSeeds []int
	Duration    time.Duration
}

// NewRunner creates a Runner. Zero option fields fall back to defaults.
func NewRunner(store *corpus.Store, opts Options) *Runner {
	if len(opts.Metrics) == 0 {
		opts.Metrics = distance.DefaultMetrics
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.Observations <= 0 {
		opts.Observations = 333
	}
	if len(opts.ReportSeeds) == 0 {
		opts.ReportSeeds = DefaultReportSeeds
	}
	return &Runner{store: store, opts: opts}
}

// SeedStep populates the store with synthetic observations and, when the
// query log is empty, the sample corpus.
func (r *Runner) SeedStep(ctx context.Context) error {
	if err := r.store.SeedObservations(r.opts.Observations, r.opts.Seed); err != nil {
		return fmt.Errorf("seeding observations: %w", err)
	}

	n, err := r.store.CountQueries()
	if err != nil {
		return fmt.Errorf("counting queries: %w", err)
	}
	if n == 0 {
		if err := r.store.InsertQueries(corpus.SampleQueries()); err != nil {
			return fmt.Errorf("inserting sample corpus: %w", err)
		}
		n = len(corpus.SampleQueries())
	}

	slog.Info("seed step complete", "observations", r.opts.Observations, "queries", n)
	return nil
}

// ParseStep extracts features for the whole corpus, builds vocabularies and
// the feature matrix, and writes the vectorization artifact.
func (r *Runner) ParseStep(ctx context.Context) (vectorize.Artifact, error) {
	records, err := r.store.ListQueries()
	if err != nil {
		return vectorize.Artifact{}, fmt.Errorf("listing queries: %w", err)
	}

	features, err := extract.ParseAllConcurrent(ctx, records)
	if err != nil {
		return vectorize.Artifact{}, fmt.Errorf("extracting features: %w", err)
	}

	// Vocabulary construction is the corpus-wide barrier: no vector layout
	// exists until every query has been scanned.
	vocab := vectorize.BuildVocabulary(features)
	matrix := vectorize.Encode(vocab, features)
	if err := matrix.Validate(); err != nil {
		return vectorize.Artifact{}, fmt.Errorf("validating feature matrix: %w", err)
	}

	artifact := vectorize.Artifact{
		ParsedQueries: features,
		FeatureMatrix: matrix.Rows,
		FeatureNames:  matrix.Names,
		Vocabularies:  vocab,
	}

	if err := writeJSON(r.queriesPath("sample_queries.json"), records); err != nil {
		return vectorize.Artifact{}, err
	}
	if err := writeJSON(r.queriesPath("parsed_features.json"), artifact); err != nil {
		return vectorize.Artifact{}, err
	}

	slog.Info("parse step complete",
		"queries", len(features),
		"matrix_rows", len(matrix.Rows),
		"matrix_cols", matrix.Width(),
	)
	return artifact, nil
}

// AnalyzeStep normalizes the feature matrix, computes a distance matrix per
// metric, and writes the distance artifact.
func (r *Runner) AnalyzeStep(ctx context.Context, parsed vectorize.Artifact) (distance.Artifact, error) {
	normalized := distance.Normalize(parsed.FeatureMatrix)

	matrices, err := distance.Matrices(ctx, normalized, r.opts.Metrics)
	if err != nil {
		return distance.Artifact{}, fmt.Errorf("computing distance matrices: %w", err)
	}

	artifact := distance.Artifact{
		NormalizedFeatures: normalized,
		DistanceMatrices:   matrices,
		Metrics:            distance.MetricNames(matrices),
	}
	if err := writeJSON(r.outputPath("topological_features.json"), artifact); err != nil {
		return distance.Artifact{}, err
	}

	slog.Info("analyze step complete", "metrics", artifact.Metrics)
	return artifact, nil
}

// RecommendStep builds the recommender and writes the per-seed
// recommendation report.
func (r *Runner) RecommendStep(parsed vectorize.Artifact, dist distance.Artifact) (map[string]recommend.SeedReport, error) {
	rec, err := recommend.New(dist.DistanceMatrices, parsed.ParsedQueries)
	if err != nil {
		return nil, fmt.Errorf("building recommender: %w", err)
	}

	seeds := r.opts.ReportSeeds
	// Drop seeds beyond the corpus so small custom corpora still produce a
	// report instead of an error.
	inRange := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if s >= 0 && s < len(parsed.ParsedQueries) {
			inRange = append(inRange, s)
		} else {
			slog.Warn("skipping report seed outside corpus", "seed", s, "corpus", len(parsed.ParsedQueries))
		}
	}

	report, err := recommend.BuildReport(rec, inRange, r.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	if err := writeJSON(r.outputPath("recommendations/recommendations.json"), report); err != nil {
		return nil, err
	}

	slog.Info("recommend step complete", "seeds", len(inRange), "metrics", len(dist.Metrics))
	return report, nil
}

// Run executes the full pipeline and returns run metadata.
func (r *Runner) Run(ctx context.Context) (RunMetadata, error) {
	start := time.Now()

	if err := r.SeedStep(ctx); err != nil {
		return RunMetadata{}, err
	}
	parsed, err := r.ParseStep(ctx)
	if err != nil {
		return RunMetadata{}, err
	}
	dist, err := r.AnalyzeStep(ctx, parsed)
	if err != nil {
		return RunMetadata{}, err
	}
	if _, err := r.RecommendStep(parsed, dist); err != nil {
		return RunMetadata{}, err
	}

	meta := RunMetadata{
		Queries:     len(parsed.ParsedQueries),
		MatrixRows:  len(parsed.FeatureMatrix),
		MatrixCols:  len(parsed.FeatureNames),
		Metrics:     dist.Metrics,
		ReportSeeds: r.opts.ReportSeeds,
		Duration:    time.Since(start),
	}
	slog.Info("pipeline complete",
		"queries", meta.Queries,
		"features", meta.MatrixCols,
		"metrics", meta.Metrics,
		"duration", meta.Duration,
	)
	return meta, nil
}
