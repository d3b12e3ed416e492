// Package recommend ranks queries by topological proximity and explains why
// each neighbor was suggested.
package recommend

import (
	"fmt"
	"sort"

	"github.com/kalambet/queryscope/internal/distance"
	"github.com/kalambet/queryscope/internal/extract"
)

// Recommendation is one suggested neighbor for a seed query.
type Recommendation struct {
	Index       int     `json:"query_idx"`
	Distance    float64 `json:"distance"`
	Explanation string  `json:"explanation"`
}

// Recommender serves top-k similar-query lookups over precomputed distance
// matrices. All inputs are immutable; the recommender itself is stateless
// and safe for concurrent use.
type Recommender struct {
	matrices map[string][][]float64
	queries  []extract.Features
}

// New validates each distance matrix against the corpus size and returns a
// Recommender. A malformed matrix is an invariant violation, not a soft
// condition, so construction fails fast.
func New(matrices map[string][][]float64, queries []extract.Features) (*Recommender, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("no distance matrices supplied")
	}
	for metric, dm := range matrices {
		if err := distance.Validate(dm, len(queries)); err != nil {
			return nil, fmt.Errorf("metric %q: %w", metric, err)
		}
	}
	return &Recommender{matrices: matrices, queries: queries}, nil
}

// Metrics returns the available metric names, sorted.
func (r *Recommender) Metrics() []string {
	return distance.MetricNames(r.matrices)
}

// Queries returns the extracted corpus the recommender was built over.
func (r *Recommender) Queries() []extract.Features {
	return r.queries
}

// ResolveMetric returns the requested metric if available, otherwise the
// first available one (sorted order, so the fallback is deterministic).
// Unknown metrics are a soft condition, never an error.
func (r *Recommender) ResolveMetric(metric string) string {
	if _, ok := r.matrices[metric]; ok {
		return metric
	}
	return r.Metrics()[0]
}

// Recommend returns up to k neighbors of the seed query under the given
// metric, ordered by ascending distance.
//
// Neighbor selection sorts the seed's distance row and always drops sorted
// position 0. With a zero diagonal that position is normally the seed
// itself, but under tied zero distances (duplicate feature vectors) it can
// be a genuine duplicate neighbor instead. The literal skip is kept on
// purpose to match the established recommendation contract. Ties are broken
// by ascending index so output is reproducible.
func (r *Recommender) Recommend(seedIdx, k int, metric string) ([]Recommendation, error) {
	n := len(r.queries)
	if n == 0 {
		return nil, fmt.Errorf("empty corpus: no query at index %d", seedIdx)
	}
	if seedIdx < 0 || seedIdx >= n {
		return nil, fmt.Errorf("query index %d out of range [0, %d)", seedIdx, n)
	}
	if k < 0 {
		return nil, fmt.Errorf("negative k: %d", k)
	}

	metric = r.ResolveMetric(metric)
	row := r.matrices[metric][seedIdx]

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if row[order[a]] != row[order[b]] {
			return row[order[a]] < row[order[b]]
		}
		return order[a] < order[b]
	})

	end := k + 1
	if end > n {
		end = n
	}
	neighbors := order[1:end]

	seed := r.queries[seedIdx]
	recs := make([]Recommendation, 0, len(neighbors))
	for _, idx := range neighbors {
		recs = append(recs, Recommendation{
			Index:       idx,
			Distance:    row[idx],
			Explanation: Explain(seed, r.queries[idx], metric, row[idx]),
		})
	}
	return recs, nil
}
