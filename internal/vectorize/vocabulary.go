package vectorize

import (
	"sort"

	"github.com/kalambet/queryscope/internal/extract"
)

// Vocabulary holds the sorted, deduplicated value sets observed across a
// corpus. It is an explicit immutable value threaded into the vectorizer:
// vector layout is only well-defined once the whole corpus has been scanned,
// so building one is the synchronization point of the pipeline.
type Vocabulary struct {
	Tables       []string `json:"tables"`
	Columns      []string `json:"columns"`
	Users        []string `json:"users"`
	Aggregations []string `json:"aggregations"`

	// Dense slot indexes, built once so one-hot encoding never scans the
	// lists. Not serialized: reconstructed from the lists on demand.
	tableIdx  map[string]int
	columnIdx map[string]int
	userIdx   map[string]int
	aggIdx    map[string]int
}

// BuildVocabulary scans the full extracted corpus and returns its vocabulary.
// Lexicographic sorting makes the result independent of record order.
func BuildVocabulary(features []extract.Features) Vocabulary {
	tables := map[string]bool{}
	columns := map[string]bool{}
	users := map[string]bool{}
	aggs := map[string]bool{}

	for _, f := range features {
		for _, t := range f.Tables {
			tables[t] = true
		}
		for _, c := range f.Columns {
			columns[c] = true
		}
		users[f.User] = true
		for _, a := range f.Aggregations {
			aggs[a] = true
		}
	}

	v := Vocabulary{
		Tables:       sortedKeys(tables),
		Columns:      sortedKeys(columns),
		Users:        sortedKeys(users),
		Aggregations: sortedKeys(aggs),
	}
	v.buildIndexes()
	return v
}

func (v *Vocabulary) buildIndexes() {
	v.tableIdx = indexOf(v.Tables)
	v.columnIdx = indexOf(v.Columns)
	v.userIdx = indexOf(v.Users)
	v.aggIdx = indexOf(v.Aggregations)
}

// Width returns the number of feature slots a vector built from this
// vocabulary occupies.
func (v Vocabulary) Width() int {
	// tables + columns + 5 flags + num_conditions + aggregations +
	// 4 query types + users + 4 semantic counts.
	return len(v.Tables) + len(v.Columns) + 6 + len(v.Aggregations) + 4 + len(v.Users) + 4
}

func indexOf(list []string) map[string]int {
	idx := make(map[string]int, len(list))
	for i, s := range list {
		idx[s] = i
	}
	return idx
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
