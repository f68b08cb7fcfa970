package features

// Pollutant keys in the order their lag/rolling blocks appear in the schema.
var lagOrder = []string{"pm25", "pm10", "o3", "no2", "so2", "co"}

// Names is the training-time feature order. The scaler and the model were
// fitted on exactly this sequence.
var Names = buildNames()

// Width is the number of features in a row.
var Width = len(Names)

var index = buildIndex()

func buildNames() []string {
	names := []string{
		"temperature", "humidity", "pressure", "wind_speed", "wind_direction",
		"pm25", "pm10", "no2", "so2", "o3", "co",
	}
	for _, p := range lagOrder {
		names = append(names, p+"_lag1", p+"_lag2", p+"_lag3", p+"_roll3")
	}
	names = append(names,
		"Year", "Month", "Day", "Dayofweek", "Hour", "Hour_sin", "Hour_cos",
		"location_id_encoded", "city_encoded",
	)
	return names
}

func buildIndex() map[string]int {
	m := make(map[string]int, len(Names))
	for i, n := range Names {
		m[n] = i
	}
	return m
}

// IndexOf returns the column of a feature name.
func IndexOf(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}
