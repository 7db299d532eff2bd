package forecast

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppps/weatherdesk/internal/models"
)

// PrecipThreshold is the minimum chance of precipitation, in percent,
// that earns a mention in the detailed report. Exactly 20 is included.
const PrecipThreshold = 20.0

// roundDegrees rounds a temperature to the nearest whole degree,
// half away from zero (22.4 -> 22, 22.5 -> 23).
func roundDegrees(v float64) int {
	return int(math.Round(v))
}

// Summary renders the short one-line report: the provider's summary
// sentence followed by the rounded maximum temperature.
//
//	Drizzle starting in the afternoon. Max 22°C.
func Summary(day models.ForecastDay) string {
	return fmt.Sprintf("%s Max %d°C.", day.Summary, roundDegrees(day.TempMax))
}

// Detailed renders the multi-field report used for the city panels:
// condition, maximum temperature with a feels-like clause when it
// differs after rounding, wind speed and direction, and the chance of
// rain when it is worth mentioning.
//
//	Sunny day. Max 22°C, feels like 19°C. Wind 13mph NW. 45% chance of rain.
func Detailed(day models.ForecastDay) string {
	var b strings.Builder

	max := roundDegrees(day.TempMax)
	feels := roundDegrees(day.FeelsLike)

	dir := day.WindDir
	if dir == "" {
		dir = CompassPoint(day.WindDeg)
	}

	fmt.Fprintf(&b, "%s. Max %d°C", day.Summary, max)
	if feels != max {
		fmt.Fprintf(&b, ", feels like %d°C", feels)
	}
	fmt.Fprintf(&b, ". Wind %dmph %s.", int(math.Round(day.WindSpeed)), dir)

	if day.PrecipChance >= PrecipThreshold {
		fmt.Fprintf(&b, " %d%% chance of rain.", int(math.Round(day.PrecipChance)))
	}

	return b.String()
}
