package corpus

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryRecord is one analyst query as captured from the query log.
// Records are immutable once stored.
type QueryRecord struct {
	SQL         string `json:"sql"`
	Description string `json:"description"`
	User        string `json:"user"`
	Timestamp   string `json:"timestamp"`
}

// Observation is one synthetic penguin observation row. The observation
// tables exist so the sample corpus has a real schema to run against.
type Observation struct {
	Species         string
	Island          string
	BillLengthMM    float64
	BillDepthMM     float64
	FlipperLengthMM float64
	BodyMassG       float64
	Sex             string
	ObservationDate string
	Researcher      string
}
