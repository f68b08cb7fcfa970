package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kjstillabower/aqi-dashboard/internal/models"
)

// ErrOutOfRange is returned when a reading falls outside its control bounds.
var ErrOutOfRange = errors.New("value out of range")

// ErrInvalidNumber is returned when a numeric field does not parse.
var ErrInvalidNumber = errors.New("invalid number")

// ErrInvalidDate is returned when the date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidTime is returned when the time of day is not HH:MM or HH:MM:SS.
var ErrInvalidTime = errors.New("invalid time")

// DateLayout and TimeLayout are the formats of the date and time inputs.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Vocabulary holds the labels the categorical selectors may offer.
// They come from the loaded encoders, never from a hardcoded list.
type Vocabulary struct {
	Cities    []string
	Locations []string
}

// ParseTimestamp combines a date and a time of day into one wall-clock timestamp in loc.
func ParseTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", date, ErrInvalidDate)
	}
	clock = strings.TrimSpace(clock)
	c, err := time.Parse(TimeLayout, clock)
	if err != nil {
		c, err = time.Parse("15:04:05", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("%q: %w", clock, ErrInvalidTime)
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

// FromForm collects a PredictionRequest from sidebar form values. Missing fields
// take their defaults (first vocabulary label, now, control default) and numeric
// values are clamped to their control bounds, as a slider would. Labels are
// passed through untouched; encoding rejects unknown ones.
func FromForm(values url.Values, vocab Vocabulary, now time.Time) (models.PredictionRequest, error) {
	req := models.PredictionRequest{
		City:     firstNonEmpty(values.Get("city"), first(vocab.Cities)),
		Location: firstNonEmpty(values.Get("location"), first(vocab.Locations)),
	}

	date := firstNonEmpty(values.Get("date"), now.Format(DateLayout))
	clock := firstNonEmpty(values.Get("time"), now.Format(TimeLayout))
	ts, err := ParseTimestamp(date, clock, now.Location())
	if err != nil {
		return models.PredictionRequest{}, err
	}
	req.Timestamp = ts

	read := func(c NumericControl) (float64, error) {
		raw := strings.TrimSpace(values.Get(c.Key))
		if raw == "" {
			return c.Default, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%s %q: %w", c.Key, raw, ErrInvalidNumber)
		}
		return c.Clamp(v), nil
	}
	targets := map[string]*float64{
		KeyTemperature:   &req.Weather.Temperature,
		KeyHumidity:      &req.Weather.Humidity,
		KeyPressure:      &req.Weather.Pressure,
		KeyWindSpeed:     &req.Weather.WindSpeed,
		KeyWindDirection: &req.Weather.WindDirection,
		KeyPM25:          &req.Pollutants.PM25,
		KeyPM10:          &req.Pollutants.PM10,
		KeyNO2:           &req.Pollutants.NO2,
		KeySO2:           &req.Pollutants.SO2,
		KeyO3:            &req.Pollutants.O3,
		KeyCO:            &req.Pollutants.CO,
	}
	for _, group := range [][]NumericControl{WeatherControls, PollutantControls} {
		for _, c := range group {
			v, err := read(c)
			if err != nil {
				return models.PredictionRequest{}, err
			}
			*targets[c.Key] = v
		}
	}
	return req, nil
}

// ValidateRequest checks every numeric reading against its control bounds.
// Used for API input, which is not clamped.
func ValidateRequest(req models.PredictionRequest) error {
	readings := map[string]float64{
		KeyTemperature:   req.Weather.Temperature,
		KeyHumidity:      req.Weather.Humidity,
		KeyPressure:      req.Weather.Pressure,
		KeyWindSpeed:     req.Weather.WindSpeed,
		KeyWindDirection: req.Weather.WindDirection,
		KeyPM25:          req.Pollutants.PM25,
		KeyPM10:          req.Pollutants.PM10,
		KeyNO2:           req.Pollutants.NO2,
		KeySO2:           req.Pollutants.SO2,
		KeyO3:            req.Pollutants.O3,
		KeyCO:            req.Pollutants.CO,
	}
	for _, group := range [][]NumericControl{WeatherControls, PollutantControls} {
		for _, c := range group {
			if v := readings[c.Key]; !c.Contains(v) {
				return fmt.Errorf("%s = %v, want [%v, %v]: %w", c.Key, v, c.Min, c.Max, ErrOutOfRange)
			}
		}
	}
	return nil
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}
