package forecast

import "math"

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint buckets a wind bearing in degrees into one of the eight
// principal compass points. Each sector is 45 degrees wide and centred
// on its point, so N covers [337.5, 360) and [0, 22.5). The bearing is
// reduced modulo 360 first; negative and out-of-range values are fine.
func CompassPoint(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int((deg+22.5)/45) % 8
	return compassPoints[idx]
}
