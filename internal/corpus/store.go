package corpus

import (
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding the query corpus and the synthetic
// observation tables the sample queries run against.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "queryscope.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for ad-hoc reads.
func (s *Store) DB() *sql.DB {
	return s.db
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Query records ---

// InsertQueries appends records to the query log, preserving their order.
// The sequence number continues from the current maximum.
func (s *Store) InsertQueries(records []QueryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), -1) + 1 FROM query_records").Scan(&next); err != nil {
		tx.Rollback()
		return fmt.Errorf("reading max sequence: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, r := range records {
		if _, err := tx.Exec(`
			INSERT INTO query_records (id, seq, sql_text, description, user, timestamp, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), next+i, r.SQL, r.Description, r.User, r.Timestamp, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting query %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListQueries returns all query records in insertion order. The returned
// slice order is the corpus order every downstream index refers to.
func (s *Store) ListQueries() ([]QueryRecord, error) {
	rows, err := s.db.Query(`
		SELECT sql_text, description, user, timestamp
		FROM query_records ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []QueryRecord
	for rows.Next() {
		var r QueryRecord
		if err := rows.Scan(&r.SQL, &r.Description, &r.User, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetQuery returns the record at the given corpus position.
func (s *Store) GetQuery(idx int) (QueryRecord, error) {
	var r QueryRecord
	err := s.db.QueryRow(`
		SELECT sql_text, description, user, timestamp
		FROM query_records WHERE seq = ?`, idx,
	).Scan(&r.SQL, &r.Description, &r.User, &r.Timestamp)
	if err == sql.ErrNoRows {
		return QueryRecord{}, ErrNotFound
	}
	if err != nil {
		return QueryRecord{}, err
	}
	return r, nil
}

// CountQueries returns the number of records in the query log.
func (s *Store) CountQueries() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM query_records").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// PurgeQueries removes all query records.
func (s *Store) PurgeQueries() error {
	_, err := s.db.Exec("DELETE FROM query_records")
	return err
}

// --- Synthetic observation data ---

var (
	speciesNames = []string{"Adelie", "Chinstrap", "Gentoo"}
	islandNames  = []string{"Torgersen", "Biscoe", "Dream"}
	sexes        = []string{"Male", "Female"}
	researchers  = []string{"Dr. Gorman", "Dr. Williams", "Dr. Fraser", "Dr. Palmer"}
)

// SeedObservations fills the observation tables with n synthetic penguin
// rows plus the species/island metadata. A fixed RNG seed keeps repeated
// runs byte-identical. Idempotent: existing rows are replaced.
func (s *Store) SeedObservations(n int, seed int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	for _, table := range []string{"penguins", "species_info", "island_info"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2007, 11, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		o := Observation{
			Species:         speciesNames[rng.Intn(len(speciesNames))],
			Island:          islandNames[rng.Intn(len(islandNames))],
			BillLengthMM:    32 + rng.Float64()*28,
			BillDepthMM:     13 + rng.Float64()*9,
			FlipperLengthMM: 170 + rng.Float64()*60,
			BodyMassG:       2700 + rng.Float64()*3600,
			Sex:             sexes[rng.Intn(len(sexes))],
			ObservationDate: base.AddDate(0, 0, rng.Intn(1096)).Format("2006-01-02"),
			Researcher:      researchers[rng.Intn(len(researchers))],
		}
		if _, err := tx.Exec(`
			INSERT INTO penguins (species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex, observation_date, researcher)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.Species, o.Island, o.BillLengthMM, o.BillDepthMM, o.FlipperLengthMM, o.BodyMassG, o.Sex, o.ObservationDate, o.Researcher,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting observation %d: %w", i, err)
		}
	}

	speciesMeta := []struct {
		species, scientific, habitat string
		lifespan                     int
	}{
		{"Adelie", "Pygoscelis adeliae", "Rocky coastlines", 15},
		{"Chinstrap", "Pygoscelis antarcticus", "Rocky islands", 20},
		{"Gentoo", "Pygoscelis papua", "Coastal plains", 13},
	}
	for _, m := range speciesMeta {
		if _, err := tx.Exec(`
			INSERT INTO species_info (species, scientific_name, habitat, avg_lifespan_years)
			VALUES (?, ?, ?, ?)`,
			m.species, m.scientific, m.habitat, m.lifespan,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting species_info %s: %w", m.species, err)
		}
	}

	islandMeta := []struct {
		island         string
		area, lat, lon float64
	}{
		{"Torgersen", 1.59, -64.77, -64.07},
		{"Biscoe", 28.33, -65.43, -65.50},
		{"Dream", 0.93, -64.73, -64.23},
	}
	for _, m := range islandMeta {
		if _, err := tx.Exec(`
			INSERT INTO island_info (island, area_km2, latitude, longitude)
			VALUES (?, ?, ?, ?)`,
			m.island, m.area, m.lat, m.lon,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting island_info %s: %w", m.island, err)
		}
	}

	return tx.Commit()
}

// CountObservations returns the number of synthetic observation rows.
func (s *Store) CountObservations() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM penguins").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
