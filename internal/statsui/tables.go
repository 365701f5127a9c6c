package statsui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

func errorColumns() []table.Column {
	return []table.Column{
		{Title: "Expected", Width: 9},
		{Title: "Typed", Width: 9},
		{Title: "Count", Width: 6},
		{Title: "Attempts", Width: 8},
	}
}

func lessonColumns() []table.Column {
	headers, _ := stats.LessonRows(nil)
	widths := []int{16, 24, 8, 8, 8, 8, 16}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}

func errorRows(errs []model.ErrorAggregate) []table.Row {
	rows := make([]table.Row, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, table.Row{
			stats.CharLabel(e.Expected),
			stats.CharLabel(e.Typed),
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%d", e.Attempts),
		})
	}
	return rows
}

func lessonRows(bests []model.LessonBest) []table.Row {
	_, cells := stats.LessonRows(bests)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
