// Package api serves the similarity space over HTTP and MCP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/queryscope/internal/recommend"
	"github.com/kalambet/queryscope/internal/vectorize"
)

// Deps holds everything the HTTP layer needs: the loaded artifacts and a
// ready recommender.
type Deps struct {
	Parsed        vectorize.Artifact
	Recommender   *recommend.Recommender
	DefaultK      int
	DefaultMetric string
}

// NewHandler builds the HTTP router over a loaded similarity space.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))
	r.Get("/queries", handleListQueries(deps))
	r.Get("/queries/{idx}", handleGetQuery(deps))
	r.Get("/queries/{idx}/similar", handleSimilar(deps))
	r.Get("/features", handleFeatures(deps))

	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"queries": len(deps.Parsed.ParsedQueries),
			"metrics": deps.Recommender.Metrics(),
		})
	}
}

func handleListQueries(deps Deps) http.HandlerFunc {
	type item struct {
		Index       int    `json:"index"`
		SQL         string `json:"sql"`
		Description string `json:"description"`
		User        string `json:"user"`
		QueryType   string `json:"query_type"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		items := make([]item, 0, len(deps.Parsed.ParsedQueries))
		for i, q := range deps.Parsed.ParsedQueries {
			items = append(items, item{
				Index:       i,
				SQL:         q.SQL,
				Description: q.Description,
				User:        q.User,
				QueryType:   q.QueryType,
			})
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleGetQuery(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, ok := parseIndex(w, r, len(deps.Parsed.ParsedQueries))
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, deps.Parsed.ParsedQueries[idx])
	}
}

func handleSimilar(deps Deps) http.HandlerFunc {
	type response struct {
		Metric          string                  `json:"metric"`
		Recommendations []recommend.ReportEntry `json:"recommendations"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		idx, ok := parseIndex(w, r, len(deps.Parsed.ParsedQueries))
		if !ok {
			return
		}

		k := deps.DefaultK
		if raw := r.URL.Query().Get("k"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid k: %q", raw)
				return
			}
			k = parsed
		}

		metric := r.URL.Query().Get("metric")
		if metric == "" {
			metric = deps.DefaultMetric
		}
		// Unknown metrics resolve to an available one; the response carries
		// the metric actually used.
		resolved := deps.Recommender.ResolveMetric(metric)

		recs, err := deps.Recommender.Recommend(idx, k, resolved)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "internal_error", "recommendation failed: %v", err)
			return
		}

		entries := make([]recommend.ReportEntry, 0, len(recs))
		for _, rec := range recs {
			neighbor := deps.Parsed.ParsedQueries[rec.Index]
			entries = append(entries, recommend.ReportEntry{
				QueryIdx:    rec.Index,
				Distance:    rec.Distance,
				Explanation: rec.Explanation,
				RecommendedQuery: recommend.RecordSummary{
					SQL:         neighbor.SQL,
					Description: neighbor.Description,
					User:        neighbor.User,
				},
			})
		}
		writeJSON(w, http.StatusOK, response{Metric: resolved, Recommendations: entries})
	}
}

func handleFeatures(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"feature_names": deps.Parsed.FeatureNames,
			"vocabularies":  deps.Parsed.Vocabularies,
			"width":         len(deps.Parsed.FeatureNames),
		})
	}
}

func parseIndex(w http.ResponseWriter, r *http.Request, n int) (int, bool) {
	raw := chi.URLParam(r, "idx")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid query index: %q", raw)
		return 0, false
	}
	if idx < 0 || idx >= n {
		httpError(w, http.StatusNotFound, "not_found_error", "query index %d out of range [0, %d)", idx, n)
		return 0, false
	}
	return idx, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
