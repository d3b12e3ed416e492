package corpus

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestInsertAndListQueriesPreservesOrder(t *testing.T) {
	s := openTestStore(t)

	records := SampleQueries()
	if err := s.InsertQueries(records); err != nil {
		t.Fatalf("InsertQueries: %v", err)
	}

	got, err := s.ListQueries()
	if err != nil {
		t.Fatalf("ListQueries: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d mismatch:\n  want %+v\n  got  %+v", i, records[i], got[i])
		}
	}
}

func TestInsertQueriesContinuesSequence(t *testing.T) {
	s := openTestStore(t)

	first := []QueryRecord{{SQL: "SELECT * FROM penguins", User: "Dr. Palmer"}}
	second := []QueryRecord{{SQL: "SELECT species FROM penguins", User: "Dr. Fraser"}}

	if err := s.InsertQueries(first); err != nil {
		t.Fatalf("first InsertQueries: %v", err)
	}
	if err := s.InsertQueries(second); err != nil {
		t.Fatalf("second InsertQueries: %v", err)
	}

	r, err := s.GetQuery(1)
	if err != nil {
		t.Fatalf("GetQuery(1): %v", err)
	}
	if r.SQL != second[0].SQL {
		t.Errorf("expected second batch at seq 1, got %q", r.SQL)
	}
}

func TestGetQueryNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetQuery(42); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedObservationsDeterministic(t *testing.T) {
	s1 := openTestStore(t)
	s2 := openTestStore(t)

	for _, s := range []*Store{s1, s2} {
		if err := s.SeedObservations(50, 7); err != nil {
			t.Fatalf("SeedObservations: %v", err)
		}
	}

	read := func(s *Store) []Observation {
		rows, err := s.DB().Query(`
			SELECT species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex, observation_date, researcher
			FROM penguins ORDER BY rowid`)
		if err != nil {
			t.Fatalf("querying penguins: %v", err)
		}
		defer rows.Close()
		var out []Observation
		for rows.Next() {
			var o Observation
			if err := rows.Scan(&o.Species, &o.Island, &o.BillLengthMM, &o.BillDepthMM, &o.FlipperLengthMM, &o.BodyMassG, &o.Sex, &o.ObservationDate, &o.Researcher); err != nil {
				t.Fatalf("scanning observation: %v", err)
			}
			out = append(out, o)
		}
		return out
	}

	a, b := read(s1), read(s2)
	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("expected 50 rows in each store, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between identically seeded stores", i)
		}
	}
}

func TestSeedObservationsIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.SeedObservations(30, 1); err != nil {
		t.Fatalf("first SeedObservations: %v", err)
	}
	if err := s.SeedObservations(30, 1); err != nil {
		t.Fatalf("second SeedObservations: %v", err)
	}

	n, err := s.CountObservations()
	if err != nil {
		t.Fatalf("CountObservations: %v", err)
	}
	if n != 30 {
		t.Errorf("expected 30 observations after reseeding, got %d", n)
	}
}
