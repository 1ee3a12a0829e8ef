// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typetrack/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Metrics computes WPM, CPM and accuracy from keystroke counts.
func Metrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
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
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample reduces values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints a summary of exercise results.
func RenderSummary(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No exercises found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	fixed := 0
	for _, r := range results {
		wpm, cpm, acc := Metrics(r.Correct, r.Incorrect, r.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		fixed += r.Fixed
	}
	count := float64(len(results))
	lines := []string{
		"Summary",
		fmt.Sprintf("Exercises: %d", len(results)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Fixed mistakes: %d", fixed),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints a WPM sparkline smoothed over window results and
// squeezed to width columns.
func RenderCurve(w io.Writer, results []model.ResultAggregate, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	for i, r := range results {
		wpms[i], _, _ = Metrics(r.Correct, r.Incorrect, r.DurationMs)
	}
	line := Sparkline(Resample(MovingAverage(wpms, window), width))
	_, err := fmt.Fprintf(w, "WPM trend\n%s\n\n", line)
	return err
}

// RenderCurves plots WPM and accuracy learning curves smoothed over window
// results.
func RenderCurves(w io.Writer, results []model.ResultAggregate, window int, opts PlotOptions) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpm, _, acc := Metrics(r.Correct, r.Incorrect, r.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, opts)
}

// RenderCharCurves plots accuracy and fixed-mistake curves for each of chars.
// byResult holds the per-result stats of the selected characters; results
// without an entry for a character contribute zero.
func RenderCharCurves(w io.Writer, results []model.ResultAggregate, byResult map[int64]map[string]model.CharAggregate, chars []string, window int, opts PlotOptions) error {
	if len(results) == 0 || len(chars) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	for _, ch := range chars {
		accs := make([]float64, len(results))
		fixed := make([]float64, len(results))
		for i, r := range results {
			agg, ok := byResult[r.ResultID][ch]
			if !ok || agg.Typed == 0 {
				continue
			}
			accs[i] = accuracy(agg) * 100
			fixed[i] = float64(agg.Fixed)
		}
		if err := PlotSeries(w, fmt.Sprintf("Char %s", charLabel(ch)), []Series{
			{Name: "Accuracy", Values: MovingAverage(accs, window)},
			{Name: "Fixed", Values: MovingAverage(fixed, window)},
		}, opts); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character aggregates, lowest accuracy first.
// top limits the number of rows when positive.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := accuracy(rows[i]), accuracy(rows[j])
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Typed", "Incorrect", "Fixed"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			charLabel(r.Char),
			fmt.Sprintf("%.2f%%", accuracy(r)*100),
			fmt.Sprintf("%d", r.Typed),
			fmt.Sprintf("%d", r.Incorrect),
			fmt.Sprintf("%d", r.Fixed),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func charLabel(ch string) string {
	if ch == " " {
		return "<space>"
	}
	return ch
}
