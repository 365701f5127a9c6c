package stats

import (
	"time"

	"github.com/verte-zerg/codetype/internal/engine"
	"github.com/verte-zerg/codetype/internal/lesson"
	"github.com/verte-zerg/codetype/internal/model"
)

// Result is the outcome of a finished attempt, ready to show and store.
type Result struct {
	LessonID     string
	LessonTitle  string
	Lang         string
	Mode         lesson.Mode
	StartedAt    time.Time
	EndedAt      time.Time
	Metrics      engine.Metrics
	CommonErrors []model.ErrorRecord
	Points       int
}

// NewResult builds a result for the lesson from the final engine state.
func NewResult(l *lesson.Lesson, st engine.State, now time.Time, strategy PointStrategy) Result {
	m := st.Metrics(now)
	ended := st.EndedAt()
	if !st.Finished() {
		ended = now
	}
	return Result{
		LessonID:     l.ID,
		LessonTitle:  l.DisplayTitle(),
		Lang:         l.Language,
		Mode:         st.Mode(),
		StartedAt:    st.StartedAt(),
		EndedAt:      ended,
		Metrics:      m,
		CommonErrors: ErrorRecords(st.Ledger()),
		Points:       strategy.Points(m.CorrectChars, m.WPM, m.Accuracy),
	}
}

// ErrorRecords converts ledger entries, keeping their order.
func ErrorRecords(entries []engine.ErrorEntry) []model.ErrorRecord {
	out := make([]model.ErrorRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.ErrorRecord{
			Expected: string(e.Expected),
			Typed:    string(e.Typed),
			Count:    e.Count,
		})
	}
	return out
}

// Record returns the attempt row for storage.
func (r Result) Record() model.AttemptRecord {
	var durationMs int64
	if !r.StartedAt.IsZero() {
		durationMs = r.EndedAt.Sub(r.StartedAt).Milliseconds()
	}
	return model.AttemptRecord{
		LessonID:     r.LessonID,
		LessonTitle:  r.LessonTitle,
		Lang:         r.Lang,
		Mode:         string(r.Mode),
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		DurationMs:   durationMs,
		TotalChars:   r.Metrics.TotalChars,
		CorrectChars: r.Metrics.CorrectChars,
		Mismatches:   r.Metrics.Mismatches,
		WPM:          r.Metrics.WPM,
		Accuracy:     r.Metrics.Accuracy,
		Points:       r.Points,
	}
}
