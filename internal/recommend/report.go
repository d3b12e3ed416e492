package recommend

import (
	"fmt"

	"github.com/kalambet/queryscope/internal/extract"
)

// RecordSummary is the light view of a recommended query in the report.
type RecordSummary struct {
	SQL         string `json:"sql"`
	Description string `json:"description"`
	User        string `json:"user"`
}

// ReportEntry is one recommendation as serialized into the report artifact.
type ReportEntry struct {
	QueryIdx         int           `json:"query_idx"`
	Distance         float64       `json:"distance"`
	Explanation      string        `json:"explanation"`
	RecommendedQuery RecordSummary `json:"recommended_query"`
}

// SeedReport holds all recommendations for one seed query, per metric.
type SeedReport struct {
	Query    extract.Features         `json:"query"`
	ByMetric map[string][]ReportEntry `json:"recommendations_by_metric"`
}

// BuildReport generates the recommendation artifact for a set of seed
// queries across every available metric. Keys are "query_<idx>".
func BuildReport(r *Recommender, seeds []int, k int) (map[string]SeedReport, error) {
	report := make(map[string]SeedReport, len(seeds))
	for _, seedIdx := range seeds {
		if seedIdx < 0 || seedIdx >= len(r.queries) {
			return nil, fmt.Errorf("seed index %d out of range [0, %d)", seedIdx, len(r.queries))
		}
		seedReport := SeedReport{
			Query:    r.queries[seedIdx],
			ByMetric: make(map[string][]ReportEntry),
		}
		for _, metric := range r.Metrics() {
			recs, err := r.Recommend(seedIdx, k, metric)
			if err != nil {
				return nil, fmt.Errorf("recommending for seed %d under %s: %w", seedIdx, metric, err)
			}
			entries := make([]ReportEntry, 0, len(recs))
			for _, rec := range recs {
				neighbor := r.queries[rec.Index]
				entries = append(entries, ReportEntry{
					QueryIdx:    rec.Index,
					Distance:    rec.Distance,
					Explanation: rec.Explanation,
					RecommendedQuery: RecordSummary{
						SQL:         neighbor.SQL,
						Description: neighbor.Description,
						User:        neighbor.User,
					},
				})
			}
			seedReport.ByMetric[metric] = entries
		}
		report[fmt.Sprintf("query_%d", seedIdx)] = seedReport
	}
	return report, nil
}
