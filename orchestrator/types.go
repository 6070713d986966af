package orchestrator

import (
	"time"

	"github.com/maastricht-university/speaker-split/corpus"
)

// Sink receives a subset's records as each speaker group is split.
type Sink interface {
	WriteAll(recs []corpus.Record) error
}

type Sinks struct {
	Train, Dev, Test Sink
}

type SubsetReport struct {
	Path     string `yaml:"path,omitempty"`
	Rows     int    `yaml:"rows"`
	Speakers int    `yaml:"speakers"`
}

type Report struct {
	Input       string    `yaml:"input,omitempty"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Seed        int64     `yaml:"seed"`
	DevPct      float64   `yaml:"dev_pct"`
	TestPct     float64   `yaml:"test_pct"`
	MinExamples int       `yaml:"min_examples"`

	Rows     int `yaml:"rows"`
	Speakers int `yaml:"speakers"`

	Train SubsetReport `yaml:"train"`
	Dev   SubsetReport `yaml:"dev"`
	Test  SubsetReport `yaml:"test"`

	// below min_examples
	ExcludedSpeakers int `yaml:"excluded_speakers"`
	ExcludedRows     int `yaml:"excluded_rows"`
	// too small for the requested fractions
	Ungroupable []string `yaml:"ungroupable,omitempty"`
}

// SizeBucket counts speakers having exactly Size records.
type SizeBucket struct {
	Size     int `yaml:"size"`
	Speakers int `yaml:"speakers"`
}

type Stats struct {
	Rows     int          `yaml:"rows"`
	Speakers int          `yaml:"speakers"`
	Largest  int          `yaml:"largest"`
	Median   int          `yaml:"median"`
	Eligible int          `yaml:"eligible"`
	Sizes    []SizeBucket `yaml:"sizes"`
}
