package features

import (
	"fmt"
	"math"
	"time"

	"github.com/kjstillabower/aqi-dashboard/internal/models"
)

// Vector is one assembled feature row in schema order.
type Vector struct {
	values []float64
}

// FromValues wraps a raw row. The width is not checked here; consumers
// compare it against the schema they were fitted with.
func FromValues(values []float64) Vector {
	return Vector{values: append([]float64(nil), values...)}
}

// Values returns a copy of the row in schema order.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

// Len returns the row width.
func (v Vector) Len() int {
	return len(v.values)
}

// Get returns the value of a named feature.
func (v Vector) Get(name string) (float64, bool) {
	i, ok := IndexOf(name)
	if !ok || i >= len(v.values) {
		return 0, false
	}
	return v.values[i], true
}

// Map returns the row keyed by feature name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.values))
	for i, val := range v.values {
		m[Names[i]] = val
	}
	return m
}

// Builder expands a PredictionRequest into the model's feature row.
// It only reads its encoders and is safe for concurrent use.
type Builder struct {
	city     *LabelEncoder
	location *LabelEncoder
}

// NewBuilder returns a Builder using the fitted city and location encoders.
func NewBuilder(city, location *LabelEncoder) *Builder {
	return &Builder{city: city, location: location}
}

// Build assembles the feature row for req. Calendar fields come from
// req.Timestamp. Only one live reading exists, so every lag and rolling slot
// of a pollutant carries the current value; the fitted model expects this.
func (b *Builder) Build(req models.PredictionRequest) (Vector, error) {
	locationCode, err := b.location.Encode(req.Location)
	if err != nil {
		return Vector{}, fmt.Errorf("encode location: %w", err)
	}
	cityCode, err := b.city.Encode(req.City)
	if err != nil {
		return Vector{}, fmt.Errorf("encode city: %w", err)
	}

	w := req.Weather
	p := req.Pollutants
	raw := map[string]float64{
		"pm25": p.PM25,
		"pm10": p.PM10,
		"no2":  p.NO2,
		"so2":  p.SO2,
		"o3":   p.O3,
		"co":   p.CO,
	}

	values := make([]float64, 0, Width)
	values = append(values,
		w.Temperature, w.Humidity, w.Pressure, w.WindSpeed, w.WindDirection,
		p.PM25, p.PM10, p.NO2, p.SO2, p.O3, p.CO,
	)
	for _, name := range lagOrder {
		v := raw[name]
		values = append(values, v, v, v, v)
	}

	ts := req.Timestamp
	hour := ts.Hour()
	hourSin, hourCos := CyclicHour(hour)
	values = append(values,
		float64(ts.Year()),
		float64(ts.Month()),
		float64(ts.Day()),
		float64(Weekday(ts)),
		float64(hour),
		hourSin,
		hourCos,
		float64(locationCode),
		float64(cityCode),
	)
	return Vector{values: values}, nil
}

// CyclicHour encodes an hour of day on the unit circle with a 24h period.
func CyclicHour(hour int) (sin, cos float64) {
	angle := 2 * math.Pi * float64(hour) / 24
	return math.Sin(angle), math.Cos(angle)
}

// Weekday returns the zero-based day of week with Monday as 0.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
