package statsui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrack/internal/model"
	"github.com/verte-zerg/typetrack/internal/stats"
)

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Finished", Width: 16},
		{Title: "WPM", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Fixed", Width: 6},
		{Title: "Mistakes", Width: 8},
	}
}

// historyRows lists results newest first.
func historyRows(results []model.ResultAggregate) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		wpm, _, acc := stats.Metrics(r.Correct, r.Incorrect, r.DurationMs)
		rows = append(rows, table.Row{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.2f%%", acc*100),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Incorrect),
			strconv.Itoa(r.Fixed),
			strconv.Itoa(r.Mistakes),
		})
	}
	return rows
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Typed", Width: 6},
		{Title: "Incorrect", Width: 9},
		{Title: "Fixed", Width: 6},
	}
}

// charRows lists character aggregates, most typed first.
func charRows(aggs []model.CharAggregate) []table.Row {
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Typed == sorted[j].Typed {
			return sorted[i].Char < sorted[j].Char
		}
		return sorted[i].Typed > sorted[j].Typed
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		acc := 1.0
		if agg.Typed > 0 {
			acc = float64(agg.Typed-agg.Incorrect) / float64(agg.Typed)
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.2f%%", acc*100),
			strconv.Itoa(agg.Typed),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(agg.Fixed),
		})
	}
	return rows
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
		Foreground(lipgloss.Color("#B8B8B8")).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
