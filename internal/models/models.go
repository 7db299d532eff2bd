package models

import (
	"time"
)

// Location is a city the weather panel covers. Identity is the Name;
// SiteID is the Met Office DataPoint location identifier.
type Location struct {
	Name      string
	SiteID    string
	Latitude  float64
	Longitude float64
}

// ForecastDay is one provider's forecast for a single calendar day.
// Date is always UTC midnight of the forecast day.
type ForecastDay struct {
	Date         time.Time
	Summary      string
	TempMax      float64
	FeelsLike    float64
	WindSpeed    float64
	WindDeg      float64
	WindDir      string // compass point; derived from WindDeg when empty
	Humidity     float64
	PrecipChance float64 // percent, 0-100
	WeatherType  int
}

// Report is a formatted forecast ready for a page frame.
type Report struct {
	Location string
	Date     time.Time
	Text     string
}

// Outlook is the regional free-text forecast: a short paragraph for
// today and the three-to-five day summary. IssuedAt comes from the
// response's Last-Modified header and is zero when the header is absent.
type Outlook struct {
	TodayText   string
	ThreeToFive string
	IssuedAt    time.Time
}
