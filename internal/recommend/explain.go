package recommend

import (
	"fmt"
	"strings"

	"github.com/kalambet/queryscope/internal/extract"
)

// explanationRule pairs a predicate over (seed, neighbor) features with a
// clause formatter. Rules are evaluated in fixed priority order and every
// rule that holds contributes a clause; keeping them as data instead of a
// branch ladder makes the ruleset easy to extend and test in isolation.
type explanationRule struct {
	applies func(seed, neighbor extract.Features) bool
	clause  func(seed, neighbor extract.Features) string
}

var explanationRules = []explanationRule{
	{
		applies: func(seed, neighbor extract.Features) bool {
			return seed.QueryType == neighbor.QueryType
		},
		clause: func(seed, _ extract.Features) string {
			return fmt.Sprintf("same query pattern (%s)", seed.QueryType)
		},
	},
	{
		applies: func(seed, neighbor extract.Features) bool {
			return seed.HasJoin && neighbor.HasJoin
		},
		clause: func(_, _ extract.Features) string {
			return "both use joins"
		},
	},
	{
		applies: func(seed, neighbor extract.Features) bool {
			return seed.HasGroupBy && neighbor.HasGroupBy
		},
		clause: func(_, _ extract.Features) string {
			return "both aggregate data"
		},
	},
	{
		applies: func(seed, neighbor extract.Features) bool {
			return len(extract.Intersect(seed.Columns, neighbor.Columns)) > 0
		},
		clause: func(seed, neighbor extract.Features) string {
			common := extract.Intersect(seed.Columns, neighbor.Columns)
			if len(common) > 3 {
				common = common[:3]
			}
			return "share columns: " + strings.Join(common, ", ")
		},
	},
	{
		applies: func(seed, neighbor extract.Features) bool {
			return len(extract.Intersect(seed.Aggregations, neighbor.Aggregations)) > 0
		},
		clause: func(seed, neighbor extract.Features) string {
			common := extract.Intersect(seed.Aggregations, neighbor.Aggregations)
			return fmt.Sprintf("use similar aggregations (%s)", strings.Join(common, ", "))
		},
	},
	{
		applies: func(seed, neighbor extract.Features) bool {
			return seed.User == neighbor.User
		},
		clause: func(seed, _ extract.Features) string {
			return fmt.Sprintf("same analyst (%s)", seed.User)
		},
	},
}

// Explain builds the human-readable justification for recommending neighbor
// to the author of seed.
func Explain(seed, neighbor extract.Features, metric string, dist float64) string {
	var clauses []string
	for _, rule := range explanationRules {
		if rule.applies(seed, neighbor) {
			clauses = append(clauses, rule.clause(seed, neighbor))
		}
	}
	if len(clauses) == 0 {
		clauses = append(clauses, "topologically similar query structure")
	}
	return fmt.Sprintf("Topologically similar (%s distance: %.3f): %s",
		metric, dist, strings.Join(clauses, "; "))
}
