package extract

import "github.com/kalambet/queryscope/internal/corpus"

// Query type labels, in the fixed order the vectorizer encodes them.
const (
	TypeSelect      = "SELECT"
	TypeFilter      = "FILTER"
	TypeAggregation = "AGGREGATION"
	TypeJoin        = "JOIN"
)

// QueryTypes is the fixed query-type vocabulary. Order matters: it defines
// the one-hot layout.
var QueryTypes = []string{TypeSelect, TypeFilter, TypeAggregation, TypeJoin}

// Column semantic type labels, in the fixed order the vectorizer counts them.
const (
	ColTemporal    = "temporal"
	ColMeasurement = "measurement"
	ColCategorical = "categorical"
	ColUnknown     = "unknown"
)

// ColumnTypeOrder is the fixed order of semantic count slots.
var ColumnTypeOrder = []string{ColTemporal, ColMeasurement, ColCategorical, ColUnknown}

// AggregationFunctions is the fixed set of recognized aggregate functions.
var AggregationFunctions = []string{"COUNT", "AVG", "SUM", "MAX", "MIN"}

// Features is the structured view of one query record. Built once per
// record by the Extractor and never mutated afterward. Slice fields hold
// sorted, deduplicated, lowercased identifiers so identical corpora always
// produce byte-identical artifacts.
type Features struct {
	SQL         string `json:"sql"`
	Description string `json:"description"`
	User        string `json:"user"`
	Timestamp   string `json:"timestamp"`

	// Structural features.
	Tables        []string `json:"tables"`
	Columns       []string `json:"columns"`
	HasJoin       bool     `json:"has_join"`
	HasWhere      bool     `json:"has_where"`
	HasGroupBy    bool     `json:"has_group_by"`
	HasOrderBy    bool     `json:"has_order_by"`
	HasLimit      bool     `json:"has_limit"`
	NumConditions int      `json:"num_conditions"`
	Aggregations  []string `json:"aggregations"`

	// Semantic features.
	QueryType   string            `json:"query_type"`
	ColumnTypes map[string]string `json:"column_types"`
}

// Record returns the originating query record.
func (f Features) Record() corpus.QueryRecord {
	return corpus.QueryRecord{
		SQL:         f.SQL,
		Description: f.Description,
		User:        f.User,
		Timestamp:   f.Timestamp,
	}
}

// HasTable reports membership in the table set.
func (f Features) HasTable(name string) bool { return contains(f.Tables, name) }

// HasColumn reports membership in the column set.
func (f Features) HasColumn(name string) bool { return contains(f.Columns, name) }

// HasAggregation reports membership in the aggregation set.
func (f Features) HasAggregation(name string) bool { return contains(f.Aggregations, name) }

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

// Intersect returns the sorted intersection of two sorted string sets.
func Intersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
