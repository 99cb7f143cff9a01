package render

import (
	"fmt"
	"math"

	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// Absent is the placeholder rendered for any measurement with no value.
const Absent = "—"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Temperature formats a {degrees, unit} measurement, e.g. "21°C" or "70°F".
// A missing unit defaults to Celsius.
func Temperature(m payload.Object) string {
	return temperature(m, false)
}

// CompactTemperature renders only the degree sign, e.g. "21°", for the
// forecast strip where the unit letter would repeat ten times.
func CompactTemperature(m payload.Object) string {
	return temperature(m, true)
}

func temperature(m payload.Object, compact bool) string {
	deg, ok := m.Float("degrees")
	if !ok {
		return Absent
	}
	if compact {
		return fmt.Sprintf("%d°", round(deg))
	}
	unit := "°C"
	if u, _ := m.String("unit"); u == "FAHRENHEIT" {
		unit = "°F"
	}
	return fmt.Sprintf("%d%s", round(deg), unit)
}

// CelsiusOf converts a temperature measurement to whole Celsius degrees for
// the color-scheme thresholds. Not used for display.
func CelsiusOf(m payload.Object) (int, bool) {
	deg, ok := m.Float("degrees")
	if !ok {
		return 0, false
	}
	if u, _ := m.String("unit"); u == "FAHRENHEIT" {
		return round((deg - 32) * 5 / 9), true
	}
	return round(deg), true
}

// Wind formats a {speed, direction} record as "8 km/h NNW". The direction
// suffix is omitted when degrees is absent or not a number; an absent speed
// collapses the whole string to the placeholder.
func Wind(w payload.Object) string {
	speed, ok := w.Float("speed.value")
	if !ok {
		return Absent
	}
	unit := "km/h"
	switch u, _ := w.String("speed.unit"); u {
	case "MILE_PER_HOUR":
		unit = "mph"
	case "METER_PER_SECOND":
		unit = "m/s"
	}
	out := fmt.Sprintf("%d %s", round(speed), unit)
	if deg, ok := w.Float("direction.degrees"); ok && !math.IsNaN(deg) {
		out += " " + compassPoint(deg)
	}
	return out
}

// compassPoint maps a bearing in degrees to the nearest of 16 compass points.
func compassPoint(deg float64) string {
	idx := round(math.Mod(deg, 360)/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// Humidity formats a relative-humidity percentage, e.g. "61%".
func Humidity(value float64, ok bool) string {
	if !ok {
		return Absent
	}
	return fmt.Sprintf("%d%%", round(value))
}

func round(v float64) int {
	return int(math.Round(v))
}
