package stats

import (
	"context"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/store"
)

const defaultTopErrors = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts         []model.AttemptAggregate
	WindowAttemptIDs []string
	Summary          Summary
	Curves           Curves
	Errors           []model.ErrorAggregate
	WindowErrors     []model.ErrorAggregate
	WeakChars        []string
	Lessons          []model.LessonBest
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}
	topErrors := cfg.TopErrors
	if topErrors <= 0 {
		topErrors = defaultTopErrors
	}

	windowIDs := lastAttemptIDs(attempts, cfg.CurveWindow)
	errs, err := st.CommonErrors(ctx, attemptIDs(attempts), topErrors)
	if err != nil {
		return Report{}, err
	}
	windowErrs, err := st.CommonErrors(ctx, windowIDs, topErrors)
	if err != nil {
		return Report{}, err
	}
	lessons, err := st.BestByLesson(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:         attempts,
		WindowAttemptIDs: windowIDs,
		Summary:          Summarize(attempts),
		Curves:           BuildCurves(attempts, cfg.CurveWindow),
		Errors:           errs,
		WindowErrors:     windowErrs,
		WeakChars:        SelectWeakChars(windowErrs, 5),
		Lessons:          lessons,
	}, nil
}

func attemptIDs(attempts []model.AttemptAggregate) []string {
	ids := make([]string, len(attempts))
	for i, a := range attempts {
		ids[i] = a.AttemptID
	}
	return ids
}

func lastAttemptIDs(attempts []model.AttemptAggregate, window int) []string {
	if window <= 0 || len(attempts) <= window {
		return attemptIDs(attempts)
	}
	return attemptIDs(attempts[len(attempts)-window:])
}
