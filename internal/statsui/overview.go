package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/stats"
)

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Attempts) == 0 {
		return "No attempts found."
	}
	parts := []string{renderSummaryCards(report.Summary, width), renderCurves(report.Curves, window, width)}
	if len(report.WeakChars) > 0 {
		labels := make([]string, len(report.WeakChars))
		for i, ch := range report.WeakChars {
			labels[i] = stats.CharLabel(ch)
		}
		parts = append(parts, headerStyle.Render("Weakest keys (window): ")+strings.Join(labels, " "))
	}
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(sum stats.Summary, width int) string {
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", sum.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", sum.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum.AvgAccuracy)),
		metricCard("Time", stats.FormatDuration(sum.TotalSeconds)),
		metricCard("Points", fmt.Sprintf("%d · %s", sum.TotalPoints, sum.Tier)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// renderCurves draws one sparkline per series, sized to what remains after the label and
// the latest value.
func renderCurves(curves stats.Curves, window, width int) string {
	if len(curves.WPM) == 0 {
		return ""
	}
	const labelWidth = 10
	const valueWidth = 8
	sparkWidth := max(width-labelWidth-valueWidth-2, 8)
	lastWPM := curves.WPM[len(curves.WPM)-1]
	lastAcc := curves.Accuracy[len(curves.Accuracy)-1]
	lines := []string{
		headerStyle.Render(fmt.Sprintf("Learning curves (window %d)", max(window, 1))),
		fmt.Sprintf("%-*s %s %*.1f", labelWidth, "WPM", stats.SparklineWidth(curves.WPM, sparkWidth), valueWidth, lastWPM),
		fmt.Sprintf("%-*s %s %*.1f%%", labelWidth, "Accuracy", stats.SparklineWidth(curves.Accuracy, sparkWidth), valueWidth-1, lastAcc),
	}
	return strings.Join(lines, "\n")
}
