// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	TextFile   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
	// Chars selects characters for per-character curves.
	Chars string
}

// Result captures a completed exercise.
type Result struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Lang       string
	Source     string
	TextLen    int
	Correct    int
	Incorrect  int
	Fixed      int
	Mistakes   int
	DurationMs int64
}

// CharStats stores per-character stats for an exercise.
type CharStats struct {
	Char      string
	Typed     int
	Incorrect int
	Fixed     int
}

// CharAggregate aggregates character stats across exercises.
type CharAggregate struct {
	Char      string
	Typed     int
	Incorrect int
	Fixed     int
}

// ResultAggregate summarizes an exercise for reporting.
type ResultAggregate struct {
	ResultID   int64
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	Fixed      int
	Mistakes   int
	DurationMs int64
}
