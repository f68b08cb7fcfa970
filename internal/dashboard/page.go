package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/kjstillabower/aqi-dashboard/internal/aqi"
	"github.com/kjstillabower/aqi-dashboard/internal/models"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Caption is shown under the page title.
const Caption = "ML Powered AQI Forecasting System"

// markers follow the category label with a coloured dot.
var markers = map[aqi.Category]string{
	aqi.Good:         "🟢",
	aqi.Satisfactory: "🟡",
	aqi.Moderate:     "🟠",
	aqi.Poor:         "🔴",
	aqi.VeryPoor:     "🟣",
	aqi.Severe:       "⚫",
}

// Option is one entry of a categorical selector.
type Option struct {
	Value    string
	Selected bool
}

// Slider is one numeric control with its current value.
type Slider struct {
	validation.NumericControl
	Value float64
}

// Card is one summary metric.
type Card struct {
	Label string
	Value string
	Color string
}

// View is everything the page template needs for one render.
type View struct {
	Title      string
	Caption    string
	Cities     []Option
	Locations  []Option
	Date       string
	Time       string
	Weather    []Slider
	Pollutants []Slider
	Cards      []Card
	Chart      template.HTML
	Error      string
}

// NewView builds the sidebar state for req. Selectors list only vocabulary labels.
func NewView(title string, vocab validation.Vocabulary, req models.PredictionRequest) View {
	p, w := req.Pollutants, req.Weather
	current := map[string]float64{
		validation.KeyTemperature:   w.Temperature,
		validation.KeyHumidity:      w.Humidity,
		validation.KeyPressure:      w.Pressure,
		validation.KeyWindSpeed:     w.WindSpeed,
		validation.KeyWindDirection: w.WindDirection,
		validation.KeyPM25:          p.PM25,
		validation.KeyPM10:          p.PM10,
		validation.KeyNO2:           p.NO2,
		validation.KeySO2:           p.SO2,
		validation.KeyO3:            p.O3,
		validation.KeyCO:            p.CO,
	}
	sliders := func(controls []validation.NumericControl) []Slider {
		out := make([]Slider, 0, len(controls))
		for _, c := range controls {
			out = append(out, Slider{NumericControl: c, Value: current[c.Key]})
		}
		return out
	}
	return View{
		Title:      title,
		Caption:    Caption,
		Cities:     options(vocab.Cities, req.City),
		Locations:  options(vocab.Locations, req.Location),
		Date:       req.Timestamp.Format(validation.DateLayout),
		Time:       req.Timestamp.Format(validation.TimeLayout),
		Weather:    sliders(validation.WeatherControls),
		Pollutants: sliders(validation.PollutantControls),
	}
}

func options(labels []string, selected string) []Option {
	out := make([]Option, 0, len(labels))
	for _, l := range labels {
		out = append(out, Option{Value: l, Selected: l == selected})
	}
	return out
}

// WithResult fills the three cards and the pollutant chart.
func (v View) WithResult(res models.PredictionResult) (View, error) {
	category := aqi.Categorize(res.AQI)
	v.Cards = []Card{
		{Label: "Predicted AQI", Value: FormatAQI(res.AQI)},
		{Label: "AQI Category", Value: category.String() + " " + markers[category], Color: category.Color()},
		{Label: "Location", Value: res.Location},
	}
	svg, err := RenderPollutantChart(res.Pollutants)
	if err != nil {
		return v, err
	}
	// go-chart output contains only generated markup and numeric data.
	v.Chart = template.HTML(svg)
	return v, nil
}

// WithError shows msg in place of the cards.
func (v View) WithError(msg string) View {
	v.Error = msg
	return v
}

// FormatAQI renders an AQI value with two decimals.
func FormatAQI(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Renderer executes the dashboard page template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard.html").Funcs(template.FuncMap{
		"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	}).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for v.
func (r *Renderer) Render(w io.Writer, v View) error {
	return r.tmpl.Execute(w, v)
}
