package vectorize

import (
	"reflect"
	"testing"

	"github.com/kalambet/queryscope/internal/corpus"
	"github.com/kalambet/queryscope/internal/extract"
)

// --- helpers ---

func sampleFeatures(t *testing.T) []extract.Features {
	t.Helper()
	return extract.ParseAll(corpus.SampleQueries())
}

func slotIndex(t *testing.T, names []string, name string) int {
	t.Helper()
	for i, n := range names {
		if n == name {
			return i
		}
	}
	t.Fatalf("feature %q not in layout", name)
	return -1
}

// --- tests ---

func TestBuildVocabularySortedAndDeduplicated(t *testing.T) {
	features := extract.ParseAll([]corpus.QueryRecord{
		{SQL: "SELECT species FROM penguins", User: "b"},
		{SQL: "SELECT island FROM penguins WHERE species = 'Gentoo'", User: "a"},
		{SQL: "SELECT COUNT(id) FROM sightings", User: "a"},
	})

	vocab := BuildVocabulary(features)

	if !reflect.DeepEqual(vocab.Tables, []string{"penguins", "sightings"}) {
		t.Errorf("tables = %v", vocab.Tables)
	}
	if !reflect.DeepEqual(vocab.Users, []string{"a", "b"}) {
		t.Errorf("users = %v", vocab.Users)
	}
	if !reflect.DeepEqual(vocab.Aggregations, []string{"COUNT"}) {
		t.Errorf("aggregations = %v", vocab.Aggregations)
	}
	if !sortedAscending(vocab.Columns) {
		t.Errorf("columns not sorted: %v", vocab.Columns)
	}
}

func TestBuildVocabularyIndependentOfRecordOrder(t *testing.T) {
	records := corpus.SampleQueries()
	reversed := make([]corpus.QueryRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	a := BuildVocabulary(extract.ParseAll(records))
	b := BuildVocabulary(extract.ParseAll(reversed))

	if !reflect.DeepEqual(a.Tables, b.Tables) || !reflect.DeepEqual(a.Columns, b.Columns) ||
		!reflect.DeepEqual(a.Users, b.Users) || !reflect.DeepEqual(a.Aggregations, b.Aggregations) {
		t.Error("vocabulary differs under record reordering")
	}
}

func TestEncodeWidthMatchesNames(t *testing.T) {
	features := sampleFeatures(t)
	vocab := BuildVocabulary(features)
	matrix := Encode(vocab, features)

	if len(matrix.Names) != vocab.Width() {
		t.Errorf("names = %d slots, vocabulary width = %d", len(matrix.Names), vocab.Width())
	}
	if err := matrix.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if len(matrix.Rows) != len(features) {
		t.Errorf("rows = %d, features = %d", len(matrix.Rows), len(features))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	features := sampleFeatures(t)
	vocab := BuildVocabulary(features)

	a := Encode(vocab, features)
	b := Encode(vocab, features)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different matrices")
	}
}

func TestEncodeMembershipSlots(t *testing.T) {
	features := extract.ParseAll([]corpus.QueryRecord{
		{SQL: "SELECT species, AVG(bill_length_mm) FROM penguins GROUP BY species", User: "Dr. Gorman"},
		{SQL: "SELECT island FROM sightings", User: "Dr. Palmer"},
	})
	vocab := BuildVocabulary(features)
	matrix := Encode(vocab, features)

	row := matrix.Rows[0]
	for name, want := range map[string]float64{
		"table_penguins":        1,
		"table_sightings":       0,
		"column_species":        1,
		"column_bill_length_mm": 1,
		"column_island":         0,
		"has_group_by":          1,
		"has_where":             0,
		"num_conditions":        0,
		"agg_AVG":               1,
		"type_AGGREGATION":      1,
		"type_SELECT":           0,
		"user_Dr. Gorman":       1,
		"user_Dr. Palmer":       0,
		"semantic_categorical":  1,
		"semantic_measurement":  1,
		"semantic_temporal":     0,
	} {
		if got := row[slotIndex(t, matrix.Names, name)]; got != want {
			t.Errorf("slot %q = %v, want %v", name, got, want)
		}
	}
}

func TestEncodeExactlyOneQueryTypeSlot(t *testing.T) {
	features := sampleFeatures(t)
	matrix := Encode(BuildVocabulary(features), features)

	var typeSlots []int
	for i, name := range matrix.Names {
		if len(name) > 5 && name[:5] == "type_" {
			typeSlots = append(typeSlots, i)
		}
	}
	if len(typeSlots) != 4 {
		t.Fatalf("expected 4 query-type slots, found %d", len(typeSlots))
	}

	for i, row := range matrix.Rows {
		var sum float64
		for _, slot := range typeSlots {
			sum += row[slot]
		}
		if sum != 1 {
			t.Errorf("row %d: query-type slots sum to %v, want exactly 1", i, sum)
		}
	}
}

func TestEncodeSemanticCountsSumToColumnCount(t *testing.T) {
	features := sampleFeatures(t)
	matrix := Encode(BuildVocabulary(features), features)

	var countSlots []int
	for i, name := range matrix.Names {
		if len(name) > 9 && name[:9] == "semantic_" {
			countSlots = append(countSlots, i)
		}
	}
	if len(countSlots) != 4 {
		t.Fatalf("expected 4 semantic count slots, found %d", len(countSlots))
	}

	for i, row := range matrix.Rows {
		var sum float64
		for _, slot := range countSlots {
			sum += row[slot]
		}
		if int(sum) != len(features[i].Columns) {
			t.Errorf("row %d: semantic counts sum to %v, columns = %d", i, sum, len(features[i].Columns))
		}
	}
}

func TestEncodeRebuildsMissingIndexes(t *testing.T) {
	features := sampleFeatures(t)
	vocab := BuildVocabulary(features)

	// Simulate a vocabulary deserialized from an artifact, where the
	// unexported slot indexes are absent.
	bare := Vocabulary{
		Tables:       vocab.Tables,
		Columns:      vocab.Columns,
		Users:        vocab.Users,
		Aggregations: vocab.Aggregations,
	}

	if !reflect.DeepEqual(Encode(bare, features), Encode(vocab, features)) {
		t.Error("deserialized vocabulary encodes differently")
	}
}

func TestValidateRejectsRaggedMatrix(t *testing.T) {
	m := Matrix{
		Rows:  [][]float64{{1, 2}, {1}},
		Names: []string{"a", "b"},
	}
	if err := m.Validate(); err == nil {
		t.Error("expected error for ragged row")
	}
}

func sortedAscending(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
