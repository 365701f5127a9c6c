package tui

import (
	"fmt"
	"strings"

	statsPkg "github.com/verte-zerg/codetype/internal/stats"
)

const resultsTopErrors = 5

func (m *Model) renderResults() string {
	res := m.result
	if res == nil {
		return ""
	}
	met := res.Metrics
	lines := []string{
		titleStyle.Render(res.LessonTitle + " complete"),
		"",
		fmt.Sprintf("WPM        %.1f", met.WPM),
		fmt.Sprintf("Accuracy   %.1f%%", met.Accuracy),
		fmt.Sprintf("Time       %.1fs", met.ElapsedSeconds),
		fmt.Sprintf("Characters %d/%d", met.CorrectChars, met.TotalChars),
		fmt.Sprintf("Mistakes   %d", met.Mismatches),
		fmt.Sprintf("Points     %d", res.Points),
		fmt.Sprintf("Total      %d (%s)", m.allPoints, statsPkg.TierFor(m.allPoints)),
	}
	if len(res.CommonErrors) > 0 {
		lines = append(lines, "", "Common errors")
		for i, e := range res.CommonErrors {
			if i == resultsTopErrors {
				break
			}
			lines = append(lines, fmt.Sprintf("  %s -> %s  x%d",
				statsPkg.CharLabel(e.Expected), statsPkg.CharLabel(e.Typed), e.Count))
		}
	}
	lines = append(lines, "", footerStyle.Render("r retry · enter next lesson · q quit"))
	return strings.Join(lines, "\n")
}
