// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/engine"
	"github.com/verte-zerg/codetype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy (percent) for a stored attempt.
func SessionMetrics(correct, mismatches int, durationMs int64) (wpm, cpm, accuracy float64) {
	accuracy = engine.Accuracy(correct, mismatches)
	if durationMs <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	wpm = engine.WPM(correct, time.Duration(durationMs)*time.Millisecond)
	cpm = engine.Round1(float64(correct) / minutes)
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SparklineWidth renders the sparkline of at most the last width values.
func SparklineWidth(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	return Sparkline(values)
}

// Summary aggregates stored attempts.
type Summary struct {
	Sessions     int
	AvgWPM       float64
	BestWPM      float64
	AvgCPM       float64
	AvgAccuracy  float64
	TotalSeconds float64
	TotalPoints  int
	Tier         Tier
}

// Summarize averages the recorded metrics of the attempts.
func Summarize(attempts []model.AttemptAggregate) Summary {
	sum := Summary{Sessions: len(attempts), Tier: TierNovice}
	if len(attempts) == 0 {
		return sum
	}
	var totalWPM, totalCPM, totalAcc float64
	for _, a := range attempts {
		_, cpm, _ := SessionMetrics(a.CorrectChars, a.Mismatches, a.DurationMs)
		totalWPM += a.WPM
		totalCPM += cpm
		totalAcc += a.Accuracy
		sum.BestWPM = math.Max(sum.BestWPM, a.WPM)
		sum.TotalSeconds += float64(a.DurationMs) / 1000.0
		sum.TotalPoints += a.Points
	}
	count := float64(len(attempts))
	sum.AvgWPM = engine.Round1(totalWPM / count)
	sum.AvgCPM = engine.Round1(totalCPM / count)
	sum.AvgAccuracy = engine.Round1(totalAcc / count)
	sum.TotalSeconds = engine.Round1(sum.TotalSeconds)
	sum.Tier = TierFor(sum.TotalPoints)
	return sum
}

// FormatDuration prints seconds as a compact h/m/s duration.
func FormatDuration(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

// RenderSummary prints a summary block.
func RenderSummary(w io.Writer, sum Summary) error {
	if sum.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	next, need := NextTier(sum.TotalPoints)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", sum.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %.1f", sum.BestWPM),
		fmt.Sprintf("Avg CPM: %.1f", sum.AvgCPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sum.AvgAccuracy),
		fmt.Sprintf("Time Typed: %s", FormatDuration(sum.TotalSeconds)),
		fmt.Sprintf("Points: %d (%s)", sum.TotalPoints, sum.Tier),
	}
	if need > 0 {
		lines = append(lines, fmt.Sprintf("Next Tier: %s in %d points", next, need))
	}
	for _, line := range append(lines, "") {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Curves holds smoothed per-attempt series.
type Curves struct {
	WPM      []float64
	Accuracy []float64
}

// BuildCurves smooths WPM and accuracy over a moving window.
func BuildCurves(attempts []model.AttemptAggregate, window int) Curves {
	wpms := make([]float64, len(attempts))
	accs := make([]float64, len(attempts))
	for i, a := range attempts {
		wpms[i] = a.WPM
		accs[i] = a.Accuracy
	}
	return Curves{
		WPM:      MovingAverage(wpms, window),
		Accuracy: MovingAverage(accs, window),
	}
}

// RenderCurves prints sparkline learning curves for WPM and accuracy.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window, width int) error {
	if len(attempts) == 0 {
		return nil
	}
	curves := BuildCurves(attempts, window)
	rows := [][]string{
		{"WPM", SparklineWidth(curves.WPM, width), fmt.Sprintf("%.1f", curves.WPM[len(curves.WPM)-1])},
		{"Accuracy", SparklineWidth(curves.Accuracy, width), fmt.Sprintf("%.1f%%", curves.Accuracy[len(curves.Accuracy)-1])},
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	return writeLines(w, formatTable(nil, rows, map[int]bool{2: true}))
}

// RenderErrors prints the most common mistyped pairs.
func RenderErrors(w io.Writer, errs []model.ErrorAggregate) error {
	if len(errs) == 0 {
		_, err := fmt.Fprintln(w, "No errors recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Common Errors"); err != nil {
		return err
	}
	headers := []string{"Expected", "Typed", "Count", "Attempts"}
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{
			CharLabel(e.Expected),
			CharLabel(e.Typed),
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%d", e.Attempts),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true}))
}

// RenderLessons prints per-lesson bests.
func RenderLessons(w io.Writer, bests []model.LessonBest) error {
	if len(bests) == 0 {
		_, err := fmt.Fprintln(w, "No lessons practiced.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Lessons"); err != nil {
		return err
	}
	headers, rows := LessonRows(bests)
	return writeLines(w, formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true}))
}

// LessonRows formats per-lesson bests as table cells.
func LessonRows(bests []model.LessonBest) ([]string, [][]string) {
	headers := []string{"Lesson", "Title", "Lang", "Attempts", "Best WPM", "Best Acc", "Last"}
	rows := make([][]string, 0, len(bests))
	for _, b := range bests {
		rows = append(rows, []string{
			b.LessonID,
			b.LessonTitle,
			b.Lang,
			fmt.Sprintf("%d", b.Attempts),
			fmt.Sprintf("%.1f", b.BestWPM),
			fmt.Sprintf("%.1f%%", b.BestAcc),
			b.LastEndedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return headers, rows
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range append(lines, "") {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
