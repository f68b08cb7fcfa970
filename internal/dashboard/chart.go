package dashboard

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/kjstillabower/aqi-dashboard/internal/models"
)

var (
	chartBackground = drawing.ColorFromHex("020617")
	chartForeground = drawing.ColorWhite
	chartBar        = drawing.ColorFromHex("38bdf8")
)

// PollutantBar is one bar of the pollutant snapshot.
type PollutantBar struct {
	Label string
	Value float64
}

// PollutantBars returns the six raw concentrations in display order.
func PollutantBars(p models.Pollutants) []PollutantBar {
	return []PollutantBar{
		{"PM2.5", p.PM25},
		{"PM10", p.PM10},
		{"NO2", p.NO2},
		{"SO2", p.SO2},
		{"O3", p.O3},
		{"CO", p.CO},
	}
}

// RenderPollutantChart draws the pollutant levels as an SVG bar chart.
func RenderPollutantChart(p models.Pollutants) ([]byte, error) {
	bars := PollutantBars(p)
	values := make([]chart.Value, 0, len(bars))
	top := 0.0
	for _, b := range bars {
		values = append(values, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: chartBar, StrokeColor: chartBar},
		})
		top = math.Max(top, b.Value)
	}
	// An all-zero reading still needs a non-empty y range.
	top = math.Max(1, math.Ceil(top*1.1))

	graph := chart.BarChart{
		Title: "Current Pollutant Levels",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chartForeground,
		},
		Background: chart.Style{
			FillColor: chartBackground,
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		Width:      800,
		Height:     400,
		BarWidth:   60,
		BarSpacing: 40,
		Bars:       values,
		XAxis: chart.Style{
			FontSize:    11,
			FontColor:   chartForeground,
			StrokeColor: chartForeground,
		},
		YAxis: chart.YAxis{
			Name: "Concentration",
			NameStyle: chart.Style{
				FontSize:  11,
				FontColor: chartForeground,
			},
			Style: chart.Style{
				FontSize:    10,
				FontColor:   chartForeground,
				StrokeColor: chartForeground,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render pollutant chart: %w", err)
	}
	return buf.Bytes(), nil
}
