// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings. ForceMode makes Mode override the mode lessons declare.
type Config struct {
	Mode       string
	ForceMode  bool
	FlashMs    int
	LessonsDir string
	Lang       string
	ShowHidden bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	LessonID    string
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	TopErrors   int
}

// AttemptRecord captures a finished typing attempt.
type AttemptRecord struct {
	ID           string
	LessonID     string
	LessonTitle  string
	Lang         string
	Mode         string
	StartedAt    time.Time
	EndedAt      time.Time
	DurationMs   int64
	TotalChars   int
	CorrectChars int
	Mismatches   int
	WPM          float64
	Accuracy     float64
	Points       int
}

// ErrorRecord stores how often an expected character was mistyped as another one.
type ErrorRecord struct {
	Expected string
	Typed    string
	Count    int
}

// AttemptAggregate summarizes a stored attempt for reporting.
type AttemptAggregate struct {
	AttemptID    string
	LessonID     string
	Lang         string
	EndedAt      time.Time
	CorrectChars int
	Mismatches   int
	DurationMs   int64
	WPM          float64
	Accuracy     float64
	Points       int
}

// ErrorAggregate sums error records across attempts.
type ErrorAggregate struct {
	Expected string
	Typed    string
	Count    int
	Attempts int
}

// LessonBest summarizes all attempts of one lesson.
type LessonBest struct {
	LessonID    string
	LessonTitle string
	Lang        string
	Attempts    int
	BestWPM     float64
	BestAcc     float64
	LastEndedAt time.Time
}
