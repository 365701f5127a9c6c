package engine

import (
	"math"
	"time"
)

// charsPerWord models a word as five characters.
const charsPerWord = 5.0

// Metrics summarizes an attempt.
type Metrics struct {
	ElapsedSeconds  float64
	TotalChars      int
	CorrectChars    int
	Mismatches      int
	TotalKeystrokes int
	Accuracy        float64
	WPM             float64
}

// Metrics computes the attempt metrics. A running attempt is measured up to now.
func (s State) Metrics(now time.Time) Metrics {
	elapsed := s.elapsed(now)
	correct := s.CorrectCount()
	return Metrics{
		ElapsedSeconds:  Round1(elapsed.Seconds()),
		TotalChars:      len(s.targets),
		CorrectChars:    correct,
		Mismatches:      s.mismatches,
		TotalKeystrokes: correct + s.mismatches,
		Accuracy:        Accuracy(correct, s.mismatches),
		WPM:             WPM(correct, elapsed),
	}
}

// LiveWPM measures speed up to now, ignoring the finish time. It is 0 before the first key.
func (s State) LiveWPM(now time.Time) float64 {
	if !s.started {
		return 0
	}
	return WPM(s.CorrectCount(), now.Sub(s.startedAt))
}

func (s State) elapsed(now time.Time) time.Duration {
	if !s.started {
		return 0
	}
	end := now
	if s.finished {
		end = s.endedAt
	}
	if end.Before(s.startedAt) {
		return 0
	}
	return end.Sub(s.startedAt)
}

// WPM returns words per minute for correct characters typed over elapsed, rounded to 0.1.
func WPM(correct int, elapsed time.Duration) float64 {
	minutes := elapsed.Seconds() / 60
	if minutes <= 0 {
		return 0
	}
	return Round1((float64(correct) / charsPerWord) / minutes)
}

// Accuracy returns the percentage of correct keystrokes, rounded to 0.1. Every mismatch
// counts, even when the position was typed correctly later. No keystrokes means 100.
func Accuracy(correct, mismatches int) float64 {
	total := correct + mismatches
	if total <= 0 {
		return 100
	}
	return Round1(float64(correct) / float64(total) * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
