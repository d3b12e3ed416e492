// Package distance is the metric collaborator of the pipeline: it
// normalizes a feature matrix and computes symmetric pairwise distance
// matrices over it. Consumers only rely on the contract (symmetric n×n,
// zero diagonal), so an external implementation could substitute this one.
package distance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Metric names this collaborator knows how to compute.
const (
	Euclidean = "euclidean"
	Cosine    = "cosine"
	Manhattan = "manhattan"
)

// DefaultMetrics is the standard metric set the pipeline requests.
var DefaultMetrics = []string{Euclidean, Cosine, Manhattan}

// Artifact is the serialized distance output.
type Artifact struct {
	NormalizedFeatures [][]float64            `json:"normalized_features"`
	DistanceMatrices   map[string][][]float64 `json:"distance_matrices"`
	Metrics            []string               `json:"metrics"`
}

// Normalize returns a per-column z-scored copy of the matrix: each column
// gets zero mean and unit variance. Zero-variance columns normalize to 0
// rather than dividing by zero.
func Normalize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	n := len(rows)
	width := len(rows[0])

	mean := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	std := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(n))
		if std[j] == 0 {
			std[j] = 1
		}
	}

	out := make([][]float64, n)
	for i, row := range rows {
		out[i] = make([]float64, width)
		for j, v := range row {
			out[i][j] = (v - mean[j]) / std[j]
		}
	}
	return out
}

// Matrices computes a pairwise distance matrix per requested metric.
// Metrics run concurrently since each is independent. Unknown metric names
// are skipped with a warning rather than failing the whole run.
func Matrices(ctx context.Context, rows [][]float64, metrics []string) (map[string][][]float64, error) {
	result := make(map[string][][]float64, len(metrics))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for _, metric := range metrics {
		metric := metric
		fn, ok := pairwiseFuncs[metric]
		if !ok {
			slog.Warn("skipping unknown distance metric", "metric", metric)
			continue
		}
		g.Go(func() error {
			dm := pairwise(rows, fn)
			mu.Lock()
			result[metric] = dm
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no usable distance metrics in %v", metrics)
	}
	return result, nil
}

// MetricNames returns the sorted metric keys of a distance matrix map.
func MetricNames(matrices map[string][][]float64) []string {
	names := make([]string, 0, len(matrices))
	for name := range matrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var pairwiseFuncs = map[string]func(a, b []float64) float64{
	Euclidean: euclidean,
	Cosine:    cosine,
	Manhattan: manhattan,
}

// pairwise fills a symmetric zero-diagonal matrix from a distance function.
func pairwise(rows [][]float64, fn func(a, b []float64) float64) [][]float64 {
	n := len(rows)
	dm := make([][]float64, n)
	for i := range dm {
		dm[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := fn(rows[i], rows[j])
			dm[i][j] = d
			dm[j][i] = d
		}
	}
	return dm
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for k := range a {
		d := a[k] - b[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func manhattan(a, b []float64) float64 {
	var sum float64
	for k := range a {
		sum += math.Abs(a[k] - b[k])
	}
	return sum
}

// cosine returns 1 - cosine similarity. A zero vector has no direction;
// distance to it is defined as 1, and 0 between two zero vectors.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for k := range a {
		dot += a[k] * b[k]
		na += a[k] * a[k]
		nb += b[k] * b[k]
	}
	if na == 0 && nb == 0 {
		return 0
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

const symmetryEpsilon = 1e-9

// Validate fail-fasts on structural violations of the distance matrix
// contract: n×n square, zero diagonal, symmetric.
func Validate(dm [][]float64, n int) error {
	if len(dm) != n {
		return fmt.Errorf("distance matrix has %d rows, expected %d", len(dm), n)
	}
	for i, row := range dm {
		if len(row) != n {
			return fmt.Errorf("distance matrix row %d has %d entries, expected %d", i, len(row), n)
		}
		if row[i] != 0 {
			return fmt.Errorf("distance matrix diagonal [%d][%d] = %g, expected 0", i, i, row[i])
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(dm[i][j]-dm[j][i]) > symmetryEpsilon {
				return fmt.Errorf("distance matrix asymmetric at [%d][%d]: %g vs %g", i, j, dm[i][j], dm[j][i])
			}
		}
	}
	return nil
}
