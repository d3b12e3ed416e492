package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kalambet/queryscope/internal/corpus"
	"github.com/kalambet/queryscope/internal/recommend"
)

// --- helpers ---

func newTestRunner(t *testing.T, opts Options) (*Runner, string) {
	t.Helper()
	store, err := corpus.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	if opts.Observations == 0 {
		opts.Observations = 20
	}
	return NewRunner(store, opts), opts.OutputDir
}

// --- tests ---

func TestRunProducesAllArtifacts(t *testing.T) {
	r, outputDir := newTestRunner(t, Options{})

	meta, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := len(corpus.SampleQueries()); meta.Queries != want {
		t.Errorf("meta.Queries = %d, want %d", meta.Queries, want)
	}
	if meta.MatrixRows != meta.Queries {
		t.Errorf("matrix rows = %d, queries = %d", meta.MatrixRows, meta.Queries)
	}
	if meta.MatrixCols == 0 {
		t.Error("matrix has no feature columns")
	}
	if len(meta.Metrics) != 3 {
		t.Errorf("metrics = %v, want all three defaults", meta.Metrics)
	}

	for _, rel := range []string{
		"queries/sample_queries.json",
		"queries/parsed_features.json",
		"topological_features.json",
		"recommendations/recommendations.json",
	} {
		if _, err := os.Stat(filepath.Join(outputDir, rel)); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
}

func TestArtifactsRoundTrip(t *testing.T) {
	r, outputDir := newTestRunner(t, Options{})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	parsed, err := LoadParsedArtifact(outputDir)
	if err != nil {
		t.Fatalf("LoadParsedArtifact: %v", err)
	}
	if len(parsed.ParsedQueries) != len(corpus.SampleQueries()) {
		t.Errorf("parsed queries = %d, want %d", len(parsed.ParsedQueries), len(corpus.SampleQueries()))
	}
	if len(parsed.FeatureMatrix) != len(parsed.ParsedQueries) {
		t.Errorf("matrix rows = %d, queries = %d", len(parsed.FeatureMatrix), len(parsed.ParsedQueries))
	}
	for i, row := range parsed.FeatureMatrix {
		if len(row) != len(parsed.FeatureNames) {
			t.Fatalf("row %d width = %d, feature names = %d", i, len(row), len(parsed.FeatureNames))
		}
	}

	dist, err := LoadDistanceArtifact(outputDir)
	if err != nil {
		t.Fatalf("LoadDistanceArtifact: %v", err)
	}
	if len(dist.DistanceMatrices) != 3 {
		t.Errorf("distance matrices = %d, want 3", len(dist.DistanceMatrices))
	}
	for metric, dm := range dist.DistanceMatrices {
		if len(dm) != len(parsed.ParsedQueries) {
			t.Errorf("%s matrix has %d rows, want %d", metric, len(dm), len(parsed.ParsedQueries))
		}
	}

	// The two artifacts must be mutually consistent: a recommender built from
	// them serves lookups without validation errors.
	rec, err := recommend.New(dist.DistanceMatrices, parsed.ParsedQueries)
	if err != nil {
		t.Fatalf("recommend.New over round-tripped artifacts: %v", err)
	}
	recs, err := rec.Recommend(0, 3, "euclidean")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d recommendations, want 3", len(recs))
	}
}

func TestSeedStepIsIdempotentForQueries(t *testing.T) {
	r, _ := newTestRunner(t, Options{})
	ctx := context.Background()

	if err := r.SeedStep(ctx); err != nil {
		t.Fatalf("first SeedStep: %v", err)
	}
	if err := r.SeedStep(ctx); err != nil {
		t.Fatalf("second SeedStep: %v", err)
	}

	n, err := r.store.CountQueries()
	if err != nil {
		t.Fatalf("CountQueries: %v", err)
	}
	if want := len(corpus.SampleQueries()); n != want {
		t.Errorf("query count after reseed = %d, want %d", n, want)
	}
}

func TestRecommendStepSkipsOutOfRangeSeeds(t *testing.T) {
	r, _ := newTestRunner(t, Options{ReportSeeds: []int{0, 500}})
	ctx := context.Background()

	if err := r.SeedStep(ctx); err != nil {
		t.Fatalf("SeedStep: %v", err)
	}
	parsed, err := r.ParseStep(ctx)
	if err != nil {
		t.Fatalf("ParseStep: %v", err)
	}
	dist, err := r.AnalyzeStep(ctx, parsed)
	if err != nil {
		t.Fatalf("AnalyzeStep: %v", err)
	}

	report, err := r.RecommendStep(parsed, dist)
	if err != nil {
		t.Fatalf("RecommendStep: %v", err)
	}
	if _, ok := report["query_0"]; !ok {
		t.Error("in-range seed missing from report")
	}
	if _, ok := report["query_500"]; ok {
		t.Error("out-of-range seed should have been skipped")
	}
}

func TestParseStepEmptyCorpus(t *testing.T) {
	r, _ := newTestRunner(t, Options{})

	parsed, err := r.ParseStep(context.Background())
	if err != nil {
		t.Fatalf("ParseStep: %v", err)
	}
	if len(parsed.ParsedQueries) != 0 {
		t.Errorf("expected empty artifact for empty corpus, got %d queries", len(parsed.ParsedQueries))
	}
}
