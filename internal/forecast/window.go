package forecast

import (
	"sort"
	"time"

	"github.com/ppps/weatherdesk/internal/dateutil"
	"github.com/ppps/weatherdesk/internal/models"
)

// SelectWindow returns the forecasts covering numDays consecutive
// calendar days beginning with the day of first. The anchor is
// truncated to midnight, so any time-of-day on the anchor selects the
// same window. Results are ordered ascending by date; days missing
// from the input are simply absent from the output.
func SelectWindow(days []models.ForecastDay, first time.Time, numDays int) []models.ForecastDay {
	if numDays < 1 {
		numDays = 1
	}

	sorted := make([]models.ForecastDay, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	start := dateutil.Midnight(first)
	end := start.AddDate(0, 0, numDays)

	var window []models.ForecastDay
	for _, d := range sorted {
		if !d.Date.Before(start) && d.Date.Before(end) {
			window = append(window, d)
		}
	}
	return window
}
