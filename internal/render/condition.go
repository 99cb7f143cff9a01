package render

import (
	"strings"

	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// Symbol identifiers handed to the render target. Stable strings so widget
// themes can key CSS classes or glyph lookups off them.
const (
	SymbolStorm      = "storm"
	SymbolSnow       = "snow"
	SymbolRain       = "rain"
	SymbolFog        = "fog"
	SymbolHaze       = "haze"
	SymbolCloudDay   = "cloud-day"
	SymbolCloudNight = "cloud-night"
	SymbolClearDay   = "clear-day"
	SymbolClearNight = "clear-night"
)

// NormalizeConditionText resolves the shape-varying weatherCondition value to
// a single display string. Resolution order: plain string, description
// string, description.text, the raw type tag, then absent.
func NormalizeConditionText(cond interface{}) (string, bool) {
	if s, ok := cond.(string); ok {
		return s, true
	}
	m, ok := cond.(map[string]interface{})
	if !ok {
		return "", false
	}
	obj := payload.Object(m)
	if s, ok := obj.String("description"); ok {
		return s, true
	}
	if s, ok := obj.String("description.text"); ok {
		return s, true
	}
	if s, ok := obj.String("type"); ok {
		return s, true
	}
	return "", false
}

type symbolRule struct {
	tokens []string
	symbol func(isDaytime bool) string
}

// typedRules maps uppercase type-tag substrings to symbols. Order matters:
// STORM must beat RAIN for combined tags, and OVERCAST must be checked before
// the generic cloud bucket.
var typedRules = []symbolRule{
	{[]string{"THUNDER", "STORM"}, fixed(SymbolStorm)},
	{[]string{"SNOW"}, fixed(SymbolSnow)},
	{[]string{"RAIN", "SHOWERS"}, fixed(SymbolRain)},
	{[]string{"FOG", "HAZE", "MIST"}, fixed(SymbolFog)},
	{[]string{"OVERCAST"}, fixed(SymbolHaze)},
	{[]string{"MOSTLY_CLOUDY", "CLOUDY", "PARTLY_CLOUDY"}, dayNight(SymbolCloudDay, SymbolCloudNight)},
	{[]string{"CLEAR", "SUNNY"}, dayNight(SymbolClearDay, SymbolClearNight)},
}

// textRules is the free-text analogue, matched against the lowercased
// normalized description.
var textRules = []symbolRule{
	{[]string{"storm", "thunder"}, fixed(SymbolStorm)},
	{[]string{"snow", "sleet"}, fixed(SymbolSnow)},
	{[]string{"rain", "drizzle"}, fixed(SymbolRain)},
	{[]string{"fog", "mist", "haze"}, fixed(SymbolFog)},
	{[]string{"overcast"}, fixed(SymbolHaze)},
	{[]string{"cloud"}, dayNight(SymbolCloudDay, SymbolCloudNight)},
	{[]string{"clear", "sunny"}, dayNight(SymbolClearDay, SymbolClearNight)},
}

func fixed(symbol string) func(bool) string {
	return func(bool) string { return symbol }
}

func dayNight(day, night string) func(bool) string {
	return func(isDaytime bool) string {
		if isDaytime {
			return day
		}
		return night
	}
}

// PickSymbol chooses the icon for a raw weatherCondition value. The typed
// strategy runs first when a type tag is present; the free-text strategy is
// only consulted when the tag is absent, never merged with a partial typed
// match. Unmatched conditions fall through to the clear-sky icon for the
// given half of the day.
func PickSymbol(cond interface{}, isDaytime bool) string {
	if m, ok := cond.(map[string]interface{}); ok {
		if tag, ok := payload.Object(m).String("type"); ok && tag != "" {
			return matchSymbol(strings.ToUpper(tag), typedRules, isDaytime)
		}
	}
	if text, ok := NormalizeConditionText(cond); ok {
		return matchSymbol(strings.ToLower(text), textRules, isDaytime)
	}
	return dayNight(SymbolClearDay, SymbolClearNight)(isDaytime)
}

func matchSymbol(s string, rules []symbolRule, isDaytime bool) string {
	for _, rule := range rules {
		for _, token := range rule.tokens {
			if strings.Contains(s, token) {
				return rule.symbol(isDaytime)
			}
		}
	}
	return dayNight(SymbolClearDay, SymbolClearNight)(isDaytime)
}
