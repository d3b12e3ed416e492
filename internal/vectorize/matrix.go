// Package vectorize turns extracted query features into a fixed-width
// numeric feature space shared by the whole corpus.
package vectorize

import (
	"fmt"

	"github.com/kalambet/queryscope/internal/extract"
)

// Matrix is the encoded corpus: one row per query, one named slot per
// feature. len(Names) always equals the row width.
type Matrix struct {
	Rows  [][]float64 `json:"feature_matrix"`
	Names []string    `json:"feature_names"`
}

// Width returns the number of feature columns.
func (m Matrix) Width() int {
	return len(m.Names)
}

// Artifact is the serialized vectorization output consumed by the distance
// collaborator and any downstream topological analysis.
type Artifact struct {
	ParsedQueries []extract.Features `json:"parsed_queries"`
	FeatureMatrix [][]float64        `json:"feature_matrix"`
	FeatureNames  []string           `json:"feature_names"`
	Vocabularies  Vocabulary         `json:"vocabularies"`
}

// Encode builds the feature matrix for an extracted corpus against a
// vocabulary. Section order is fixed: table one-hots, column one-hots,
// structural scalars, aggregation one-hots, query-type one-hots, user
// one-hots, semantic type counts.
func Encode(vocab Vocabulary, features []extract.Features) Matrix {
	if vocab.tableIdx == nil {
		vocab.buildIndexes()
	}

	width := vocab.Width()
	rows := make([][]float64, len(features))
	for i, f := range features {
		rows[i] = encodeRow(vocab, f, width)
	}

	return Matrix{Rows: rows, Names: featureNames(vocab)}
}

func encodeRow(vocab Vocabulary, f extract.Features, width int) []float64 {
	row := make([]float64, 0, width)

	row = appendOneHot(row, vocab.tableIdx, len(vocab.Tables), f.Tables)
	row = appendOneHot(row, vocab.columnIdx, len(vocab.Columns), f.Columns)

	row = append(row,
		boolToFloat(f.HasJoin),
		boolToFloat(f.HasWhere),
		boolToFloat(f.HasGroupBy),
		boolToFloat(f.HasOrderBy),
		boolToFloat(f.HasLimit),
		float64(f.NumConditions),
	)

	row = appendOneHot(row, vocab.aggIdx, len(vocab.Aggregations), f.Aggregations)

	for _, qt := range extract.QueryTypes {
		row = append(row, boolToFloat(f.QueryType == qt))
	}

	row = appendOneHot(row, vocab.userIdx, len(vocab.Users), []string{f.User})

	counts := map[string]int{}
	for _, ct := range f.ColumnTypes {
		counts[ct]++
	}
	for _, ct := range extract.ColumnTypeOrder {
		row = append(row, float64(counts[ct]))
	}

	return row
}

func appendOneHot(row []float64, idx map[string]int, size int, members []string) []float64 {
	section := make([]float64, size)
	for _, m := range members {
		if slot, ok := idx[m]; ok {
			section[slot] = 1
		}
	}
	return append(row, section...)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// featureNames generates slot names in encoding order with stable prefixes.
func featureNames(vocab Vocabulary) []string {
	names := make([]string, 0, vocab.Width())
	for _, t := range vocab.Tables {
		names = append(names, "table_"+t)
	}
	for _, c := range vocab.Columns {
		names = append(names, "column_"+c)
	}
	names = append(names, "has_join", "has_where", "has_group_by", "has_order_by", "has_limit", "num_conditions")
	for _, a := range vocab.Aggregations {
		names = append(names, "agg_"+a)
	}
	for _, qt := range extract.QueryTypes {
		names = append(names, "type_"+qt)
	}
	for _, u := range vocab.Users {
		names = append(names, "user_"+u)
	}
	names = append(names, "semantic_temporal", "semantic_measurement", "semantic_categorical", "semantic_unknown")
	return names
}

// Validate checks structural invariants of an encoded matrix: every row has
// the declared width. Violations are programming errors and fail fast.
func (m Matrix) Validate() error {
	for i, row := range m.Rows {
		if len(row) != len(m.Names) {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), len(m.Names))
		}
	}
	return nil
}
