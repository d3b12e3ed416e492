// Package extract derives structural and semantic features from raw SQL
// query text. Extraction is keyword and regex based on purpose: the corpus
// is restricted to well-formed single SELECT statements, and a total,
// never-failing pass matters more here than grammar coverage. Malformed
// input degrades to empty sets and false flags, never an error.
package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/kalambet/queryscope/internal/corpus"
	"golang.org/x/sync/errgroup"
)

var (
	fromTableRe  = regexp.MustCompile(`FROM\s+(\w+)`)
	joinTableRe  = regexp.MustCompile(`JOIN\s+(\w+)`)
	selectListRe = regexp.MustCompile(`(?i)SELECT\s+(.*?)\s+FROM`)
	funcWrapRe   = regexp.MustCompile(`\w+\((.*?)\)`)
	asAliasRe    = regexp.MustCompile(`(?i)\s+as\s+\w+`)
	identifierRe = regexp.MustCompile(`(?i)\b[a-z_][a-z0-9_]*\b`)

	whereClauseRe   = regexp.MustCompile(`(?i)WHERE\s+(.*?)(?:GROUP BY|ORDER BY|LIMIT|$)`)
	groupByClauseRe = regexp.MustCompile(`(?i)GROUP BY\s+(.*?)(?:GROUP BY|ORDER BY|LIMIT|$)`)
	orderByClauseRe = regexp.MustCompile(`(?i)ORDER BY\s+(.*?)(?:GROUP BY|ORDER BY|LIMIT|$)`)
)

// Keywords that look like identifiers inside WHERE/GROUP BY/ORDER BY clauses.
var clauseStopWords = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "IN": true, "IS": true,
	"NULL": true, "BETWEEN": true, "DESC": true, "ASC": true,
}

// Parse extracts features from one query record. Total over arbitrary text.
func Parse(rec corpus.QueryRecord) Features {
	upper := strings.ToUpper(rec.SQL)
	columns := extractColumns(rec.SQL)

	return Features{
		SQL:         rec.SQL,
		Description: rec.Description,
		User:        rec.User,
		Timestamp:   rec.Timestamp,

		Tables:        extractTables(upper),
		Columns:       columns,
		HasJoin:       strings.Contains(upper, "JOIN"),
		HasWhere:      strings.Contains(upper, "WHERE"),
		HasGroupBy:    strings.Contains(upper, "GROUP BY"),
		HasOrderBy:    strings.Contains(upper, "ORDER BY"),
		HasLimit:      strings.Contains(upper, "LIMIT"),
		NumConditions: countConditions(upper),
		Aggregations:  extractAggregations(upper),

		QueryType:   classify(upper),
		ColumnTypes: inferColumnTypes(columns),
	}
}

// ParseAll extracts features for a whole corpus, preserving record order.
func ParseAll(records []corpus.QueryRecord) []Features {
	features := make([]Features, len(records))
	for i, rec := range records {
		features[i] = Parse(rec)
	}
	return features
}

// ParseAllConcurrent is ParseAll with bounded parallelism. Extraction has no
// shared state, so records are independent; results stay index-aligned with
// the input. Useful for large query logs.
func ParseAllConcurrent(ctx context.Context, records []corpus.QueryRecord) ([]Features, error) {
	if len(records) == 0 {
		return nil, nil
	}
	features := make([]Features, len(records))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			features[i] = Parse(rec)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return features, nil
}

// extractTables finds identifiers following FROM and JOIN in the uppercased
// SQL and returns them lowercased, deduplicated and sorted.
func extractTables(upper string) []string {
	set := map[string]bool{}
	for _, re := range []*regexp.Regexp{fromTableRe, joinTableRe} {
		for _, m := range re.FindAllStringSubmatch(upper, -1) {
			set[strings.ToLower(m[1])] = true
		}
	}
	return sortedKeys(set)
}

// extractColumns unions two sources: the SELECT list and the identifiers of
// the WHERE/GROUP BY/ORDER BY clauses (minus SQL keywords).
func extractColumns(sql string) []string {
	set := map[string]bool{}

	// SELECT list, unless it selects *.
	if m := selectListRe.FindStringSubmatch(sql); m != nil {
		selectClause := m[1]
		if !strings.Contains(selectClause, "*") {
			for _, col := range strings.Split(selectClause, ",") {
				col = strings.TrimSpace(col)
				// Unwrap aggregate calls: AVG(x) -> x.
				col = funcWrapRe.ReplaceAllString(col, "$1")
				// Drop trailing AS alias.
				col = asAliasRe.ReplaceAllString(col, "")
				// Drop table qualifier: p.species -> species.
				if idx := strings.LastIndex(col, "."); idx != -1 {
					col = col[idx+1:]
				}
				col = strings.TrimSpace(col)
				if col != "" && col != "*" {
					set[strings.ToLower(col)] = true
				}
			}
		}
	}

	// Clause identifiers.
	for _, re := range []*regexp.Regexp{whereClauseRe, groupByClauseRe, orderByClauseRe} {
		m := re.FindStringSubmatch(sql)
		if m == nil {
			continue
		}
		for _, ident := range identifierRe.FindAllString(m[1], -1) {
			if clauseStopWords[strings.ToUpper(ident)] {
				continue
			}
			set[strings.ToLower(ident)] = true
		}
	}

	return sortedKeys(set)
}

// countConditions counts boolean connectives in the WHERE clause. The +1
// counts the first predicate; AND/OR occurrences inside literals or
// subqueries overcount, an accepted limitation for this corpus.
func countConditions(upper string) int {
	if !strings.Contains(upper, "WHERE") {
		return 0
	}
	clause := strings.SplitN(upper, "WHERE", 2)[1]
	if strings.Contains(clause, "GROUP BY") {
		clause = strings.SplitN(clause, "GROUP BY", 2)[0]
	}
	return strings.Count(clause, "AND") + strings.Count(clause, "OR") + 1
}

func extractAggregations(upper string) []string {
	set := map[string]bool{}
	for _, fn := range AggregationFunctions {
		if strings.Contains(upper, fn) {
			set[fn] = true
		}
	}
	return sortedKeys(set)
}

// classify assigns exactly one query-type label by strict priority.
func classify(upper string) string {
	switch {
	case strings.Contains(upper, "JOIN"):
		return TypeJoin
	case strings.Contains(upper, "GROUP BY"):
		return TypeAggregation
	case strings.Contains(upper, "WHERE"):
		return TypeFilter
	default:
		return TypeSelect
	}
}

var measurementHints = []string{"length", "depth", "mass", "weight", "area"}
var categoricalHints = []string{"species", "island", "sex", "name", "researcher"}

// inferColumnTypes maps every extracted column to a semantic type by keyword
// match. Total: unmatched columns are typed unknown.
func inferColumnTypes(columns []string) map[string]string {
	types := make(map[string]string, len(columns))
	for _, col := range columns {
		types[col] = inferColumnType(col)
	}
	return types
}

func inferColumnType(col string) string {
	lower := strings.ToLower(col)
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		return ColTemporal
	}
	for _, hint := range measurementHints {
		if strings.Contains(lower, hint) {
			return ColMeasurement
		}
	}
	for _, hint := range categoricalHints {
		if strings.Contains(lower, hint) {
			return ColCategorical
		}
	}
	return ColUnknown
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
