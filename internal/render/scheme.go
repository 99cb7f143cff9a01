package render

import "github.com/jmcallister/weather-widget-service/internal/models"

// Background gradients keyed by temperature band. The night scheme replaces
// the temperature band for the current-conditions widget after dark.
var (
	schemeCold  = models.ColorScheme{Name: "cold", Colors: [2]string{"#3a6073", "#16222a"}}
	schemeMild  = models.ColorScheme{Name: "mild", Colors: [2]string{"#4ca1af", "#2c5364"}}
	schemeHot   = models.ColorScheme{Name: "hot", Colors: [2]string{"#f5af19", "#f12711"}}
	schemeNight = models.ColorScheme{Name: "night", Colors: [2]string{"#232526", "#0f2027"}}
)

// SchemeFor picks the gradient for a Celsius temperature: below 10° cold,
// 10–23° mild, 24° and up hot. An absent temperature reads as cold.
func SchemeFor(celsius int, ok bool) models.ColorScheme {
	switch {
	case !ok:
		return schemeCold
	case celsius < 10:
		return schemeCold
	case celsius < 24:
		return schemeMild
	default:
		return schemeHot
	}
}

// NightScheme is the fixed after-dark gradient for the current widget.
func NightScheme() models.ColorScheme {
	return schemeNight
}
