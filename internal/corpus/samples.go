package corpus

// SampleQueries returns the built-in analyst corpus: queries researchers
// would plausibly run against the penguins schema, covering every pattern
// the pipeline recognizes (filters, aggregations, joins, ordering).
func SampleQueries() []QueryRecord {
	return []QueryRecord{
		// Simple species filters.
		{
			SQL:         `SELECT * FROM penguins WHERE species = "Adelie"`,
			Description: "Get all Adelie penguin observations",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:00:00",
		},
		{
			SQL:         `SELECT * FROM penguins WHERE species = "Chinstrap"`,
			Description: "Get all Chinstrap penguin observations",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:05:00",
		},
		{
			SQL:         `SELECT * FROM penguins WHERE species = "Gentoo"`,
			Description: "Get all Gentoo penguin observations",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:00:00",
		},

		// Island-based queries.
		{
			SQL:         `SELECT * FROM penguins WHERE island = "Torgersen"`,
			Description: "Get all observations from Torgersen island",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 08:00:00",
		},
		{
			SQL:         `SELECT * FROM penguins WHERE island = "Biscoe"`,
			Description: "Get all observations from Biscoe island",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 08:10:00",
		},

		// Aggregations by species.
		{
			SQL:         `SELECT species, AVG(bill_length_mm) FROM penguins GROUP BY species`,
			Description: "Average bill length by species",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:15:00",
		},
		{
			SQL:         `SELECT species, AVG(bill_depth_mm) FROM penguins GROUP BY species`,
			Description: "Average bill depth by species",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:20:00",
		},
		{
			SQL:         `SELECT species, AVG(flipper_length_mm) FROM penguins GROUP BY species`,
			Description: "Average flipper length by species",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:10:00",
		},
		{
			SQL:         `SELECT species, AVG(body_mass_g) FROM penguins GROUP BY species`,
			Description: "Average body mass by species",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:15:00",
		},

		// Count aggregations.
		{
			SQL:         `SELECT species, COUNT(*) FROM penguins GROUP BY species`,
			Description: "Count observations per species",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 11:00:00",
		},
		{
			SQL:         `SELECT island, COUNT(*) FROM penguins GROUP BY island`,
			Description: "Count observations per island",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 08:30:00",
		},
		{
			SQL:         `SELECT sex, COUNT(*) FROM penguins GROUP BY sex`,
			Description: "Count observations by sex",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 11:10:00",
		},

		// Multi-dimensional aggregations.
		{
			SQL:         `SELECT species, island, COUNT(*) FROM penguins GROUP BY species, island`,
			Description: "Species distribution across islands",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 09:00:00",
		},
		{
			SQL:         `SELECT species, sex, AVG(body_mass_g) FROM penguins GROUP BY species, sex`,
			Description: "Average body mass by species and sex",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:30:00",
		},
		{
			SQL:         `SELECT island, species, AVG(bill_length_mm) FROM penguins GROUP BY island, species`,
			Description: "Average bill length by island and species",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 09:15:00",
		},

		// JOIN queries with metadata tables.
		{
			SQL: `SELECT p.species, s.scientific_name, AVG(p.body_mass_g)
FROM penguins p JOIN species_info s ON p.species = s.species
GROUP BY p.species`,
			Description: "Average body mass with scientific names",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 11:30:00",
		},
		{
			SQL: `SELECT p.island, i.area_km2, COUNT(*)
FROM penguins p JOIN island_info i ON p.island = i.island
GROUP BY p.island`,
			Description: "Observation counts with island area",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 09:30:00",
		},
		{
			SQL: `SELECT p.species, s.habitat, AVG(p.flipper_length_mm)
FROM penguins p JOIN species_info s ON p.species = s.species
GROUP BY p.species`,
			Description: "Average flipper length with habitat info",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 11:00:00",
		},

		// Filtered aggregations.
		{
			SQL:         `SELECT AVG(bill_length_mm) FROM penguins WHERE body_mass_g > 4000`,
			Description: "Average bill length for heavy penguins",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:30:00",
		},
		{
			SQL:         `SELECT AVG(flipper_length_mm) FROM penguins WHERE bill_depth_mm > 18`,
			Description: "Average flipper length for deep bills",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:45:00",
		},
		{
			SQL: `SELECT species, AVG(bill_length_mm)
FROM penguins
WHERE body_mass_g > 3500
GROUP BY species`,
			Description: "Average bill length by species for larger penguins",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 09:45:00",
		},

		// Complex filtering.
		{
			SQL: `SELECT * FROM penguins
WHERE bill_length_mm > 45 AND flipper_length_mm > 200`,
			Description: "Find large penguins (long bill and flipper)",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 11:15:00",
		},
		{
			SQL: `SELECT species, COUNT(*) FROM penguins
WHERE body_mass_g BETWEEN 3000 AND 4000
GROUP BY species`,
			Description: "Count medium-sized penguins by species",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 11:45:00",
		},

		// Statistical range queries.
		{
			SQL:         `SELECT species, MAX(body_mass_g), MIN(body_mass_g) FROM penguins GROUP BY species`,
			Description: "Body mass range by species",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 10:20:00",
		},
		{
			SQL:         `SELECT island, MAX(bill_length_mm), MIN(bill_length_mm) FROM penguins GROUP BY island`,
			Description: "Bill length range by island",
			User:        "Dr. Fraser",
			Timestamp:   "2024-01-16 09:45:00",
		},

		// Researcher queries.
		{
			SQL:         `SELECT researcher, COUNT(*) FROM penguins GROUP BY researcher`,
			Description: "Observation counts by researcher",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 12:00:00",
		},
		{
			SQL:         `SELECT researcher, species, AVG(body_mass_g) FROM penguins GROUP BY researcher, species`,
			Description: "Average body mass by researcher and species",
			User:        "Dr. Palmer",
			Timestamp:   "2024-01-17 12:10:00",
		},

		// Ordering queries.
		{
			SQL:         `SELECT * FROM penguins ORDER BY body_mass_g DESC LIMIT 10`,
			Description: "Top 10 heaviest penguins",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 11:30:00",
		},
		{
			SQL:         `SELECT species, bill_length_mm FROM penguins ORDER BY bill_length_mm ASC LIMIT 5`,
			Description: "Penguins with shortest bills",
			User:        "Dr. Gorman",
			Timestamp:   "2024-01-15 10:00:00",
		},

		// Sex-based analysis.
		{
			SQL:         `SELECT sex, AVG(body_mass_g) FROM penguins GROUP BY sex`,
			Description: "Average body mass by sex",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 11:45:00",
		},
		{
			SQL:         `SELECT species, sex, AVG(flipper_length_mm) FROM penguins GROUP BY species, sex`,
			Description: "Average flipper length by species and sex",
			User:        "Dr. Williams",
			Timestamp:   "2024-01-15 11:50:00",
		},
	}
}
