package analytics

import (
	"math/rand"
	"time"
)

// AnomalyKind distinguishes predicted anomalies from observed ones.
type AnomalyKind string

const (
	AnomalyForecasted AnomalyKind = "forecasted"
	AnomalyDetected   AnomalyKind = "detected"
)

// ForecastPoint is one predicted day of ticket volume.
type ForecastPoint struct {
	Day             time.Time `json:"day"`
	PredictedVolume int       `json:"predicted_volume"`
}

// Anomaly annotates a forecast day with a headline and suggested actions.
type Anomaly struct {
	Kind       AnomalyKind `json:"kind"`
	Day        time.Time   `json:"day"`
	Headline   string      `json:"headline"`
	Reasons    []string    `json:"reasons"`
	Confidence string      `json:"confidence"`
	Impact     string      `json:"impact"`
	Actions    []string    `json:"actions"`
}

// Forecast is the demo volume projection: a jittered baseline with seeded
// anomaly injections. This is presentation data, not a statistical model.
type Forecast struct {
	Points    []ForecastPoint `json:"points"`
	Anomalies []Anomaly       `json:"anomalies"`
}

// BuildForecast generates days daily points starting the day after now,
// each the baseline plus deterministic jitter from seed.
func BuildForecast(now time.Time, days, baseline int, seed int64) Forecast {
	if days <= 0 {
		days = 7
	}
	if baseline <= 0 {
		baseline = 12
	}

	rng := rand.New(rand.NewSource(seed))
	start := now.Truncate(24 * time.Hour)
	points := make([]ForecastPoint, 0, days)
	for i := 1; i <= days; i++ {
		jitter := rng.Intn(baseline/2+1) - baseline/4
		volume := baseline + jitter
		if volume < 0 {
			volume = 0
		}
		points = append(points, ForecastPoint{
			Day:             start.AddDate(0, 0, i),
			PredictedVolume: volume,
		})
	}

	return Forecast{Points: points, Anomalies: demoAnomalies(points)}
}
