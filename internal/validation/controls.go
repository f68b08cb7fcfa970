package validation

import "math"

// NumericControl describes a bounded slider: its form key, label, range and default.
type NumericControl struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Clamp pins v into [Min, Max]. NaN becomes the default.
func (c NumericControl) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return c.Default
	}
	return math.Min(math.Max(v, c.Min), c.Max)
}

// Contains reports whether v lies within [Min, Max].
func (c NumericControl) Contains(v float64) bool {
	return v >= c.Min && v <= c.Max
}

// Control keys.
const (
	KeyTemperature   = "temperature"
	KeyHumidity      = "humidity"
	KeyPressure      = "pressure"
	KeyWindSpeed     = "wind_speed"
	KeyWindDirection = "wind_direction"
	KeyPM25          = "pm25"
	KeyPM10          = "pm10"
	KeyNO2           = "no2"
	KeySO2           = "so2"
	KeyO3            = "o3"
	KeyCO            = "co"
)

// WeatherControls are the sidebar weather sliders in display order.
var WeatherControls = []NumericControl{
	{Key: KeyTemperature, Label: "Temperature (°C)", Min: 0, Max: 50, Default: 30, Step: 0.1},
	{Key: KeyHumidity, Label: "Humidity (%)", Min: 0, Max: 100, Default: 70, Step: 0.1},
	{Key: KeyPressure, Label: "Pressure (hPa)", Min: 900, Max: 1100, Default: 990, Step: 0.1},
	{Key: KeyWindSpeed, Label: "Wind Speed", Min: 0, Max: 20, Default: 1, Step: 0.1},
	{Key: KeyWindDirection, Label: "Wind Direction", Min: 0, Max: 360, Default: 180, Step: 1},
}

// PollutantControls are the sidebar pollutant sliders in display order.
var PollutantControls = []NumericControl{
	{Key: KeyPM25, Label: "PM2.5", Min: 0, Max: 500, Default: 120, Step: 0.1},
	{Key: KeyPM10, Label: "PM10", Min: 0, Max: 500, Default: 160, Step: 0.1},
	{Key: KeyNO2, Label: "NO2", Min: 0, Max: 500, Default: 45, Step: 0.1},
	{Key: KeySO2, Label: "SO2", Min: 0, Max: 500, Default: 20, Step: 0.1},
	{Key: KeyO3, Label: "O3", Min: 0, Max: 500, Default: 55, Step: 0.1},
	{Key: KeyCO, Label: "CO", Min: 0, Max: 50, Default: 10, Step: 0.1},
}

// Control looks up a control by key.
func Control(key string) (NumericControl, bool) {
	for _, group := range [][]NumericControl{WeatherControls, PollutantControls} {
		for _, c := range group {
			if c.Key == key {
				return c, true
			}
		}
	}
	return NumericControl{}, false
}
