package models

import "time"

// Weather holds the continuous meteorological readings for one prediction.
type Weather struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

// Pollutants holds the six pollutant concentrations of a single live reading.
type Pollutants struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	O3   float64 `json:"o3"`
	CO   float64 `json:"co"`
}

// PredictionRequest is the transient input of one render. Timestamp is the
// combined date and time of day as entered; only its wall-clock fields are used.
type PredictionRequest struct {
	City       string     `json:"city"`
	Location   string     `json:"location"`
	Timestamp  time.Time  `json:"timestamp"`
	Weather    Weather    `json:"weather"`
	Pollutants Pollutants `json:"pollutants"`
}

// PredictionResult is the scalar model output plus its severity band.
type PredictionResult struct {
	City         string     `json:"city"`
	Location     string     `json:"location"`
	Timestamp    time.Time  `json:"timestamp"`
	AQI          float64    `json:"predictedAqi"`
	Category     string     `json:"category"`
	CategoryRank int        `json:"categoryRank"`
	Pollutants   Pollutants `json:"pollutants"`
}
