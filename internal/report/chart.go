// Package report renders outbreak results as PNG charts.
package report

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// WeeklyChart draws the reported-case curve, one point per counting
// interval, and writes the PNG to w.
func WeeklyChart(w io.Writer, weekly []int, title string) error {
	if len(weekly) < 2 {
		return fmt.Errorf("chart needs at least two intervals, got %d", len(weekly))
	}

	xs := make([]float64, len(weekly))
	ys := make([]float64, len(weekly))
	peak := 0
	for i, n := range weekly {
		xs[i] = float64(i + 1)
		ys[i] = float64(n)
		if n > peak {
			peak = n
		}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 512,
		XAxis:  chart.XAxis{Name: "Week"},
		YAxis:  chart.YAxis{Name: "Reported cases", Range: yRange(peak)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "reported", XValues: xs, YValues: ys},
		},
	}
	return graph.Render(chart.PNG, w)
}

// StateChart draws one series per disease state over the counting intervals,
// skipping states that never occur, and writes the PNG to w.
func StateChart(w io.Writer, counters [][sim.NumStates]int, title string) error {
	if len(counters) < 2 {
		return fmt.Errorf("chart needs at least two intervals, got %d", len(counters))
	}

	xs := make([]float64, len(counters))
	for i := range counters {
		xs[i] = float64(i + 1)
	}

	var series []chart.Series
	peak := 0
	for s := 0; s < sim.NumStates; s++ {
		ys := make([]float64, len(counters))
		occupied := false
		for i, row := range counters {
			ys[i] = float64(row[s])
			if row[s] > 0 {
				occupied = true
			}
			if row[s] > peak {
				peak = row[s]
			}
		}
		if !occupied {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    sim.State(s).String(),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no occupied states to draw")
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 512,
		XAxis:  chart.XAxis{Name: "Week"},
		YAxis:  chart.YAxis{Name: "Individuals", Range: yRange(peak)},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// yRange pins the axis to zero and keeps the range non-degenerate for flat
// curves, which go-chart would otherwise refuse to draw.
func yRange(peak int) *chart.ContinuousRange {
	max := float64(peak)
	if max == 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: max}
}
