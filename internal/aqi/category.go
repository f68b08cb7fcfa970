package aqi

import "strings"

// Category is an AQI severity band. The zero value is Good; higher values are worse.
type Category int

const (
	Good Category = iota
	Satisfactory
	Moderate
	Poor
	VeryPoor
	Severe
)

// bands holds the inclusive upper bound of each category except Severe.
var bands = []struct {
	upper    float64
	category Category
}{
	{50, Good},
	{100, Satisfactory},
	{200, Moderate},
	{300, Poor},
	{400, VeryPoor},
}

// Categorize maps an AQI value to its band. Each boundary belongs to the lower
// band. Defined for every input: negatives are Good, anything above 400 (and NaN)
// is Severe.
func Categorize(aqi float64) Category {
	for _, b := range bands {
		if aqi <= b.upper {
			return b.category
		}
	}
	return Severe
}

// Rank returns the ordinal of the category, 0 for Good through 5 for Severe.
func (c Category) Rank() int {
	return int(c)
}

func (c Category) String() string {
	switch c {
	case Good:
		return "Good"
	case Satisfactory:
		return "Satisfactory"
	case Moderate:
		return "Moderate"
	case Poor:
		return "Poor"
	case VeryPoor:
		return "Very Poor"
	case Severe:
		return "Severe"
	default:
		return "Unknown"
	}
}

// MetricLabel returns a lowercase, space-free label for metrics.
func (c Category) MetricLabel() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "_")
}

// Color is the marker colour shown next to the category on the dashboard.
func (c Category) Color() string {
	switch c {
	case Good:
		return "#22c55e"
	case Satisfactory:
		return "#eab308"
	case Moderate:
		return "#f97316"
	case Poor:
		return "#ef4444"
	case VeryPoor:
		return "#a855f7"
	case Severe:
		return "#0f0f0f"
	default:
		return "#6b7280"
	}
}
