// Package render turns raw API payloads into the display-ready model the
// widget consumes. All extraction is absence-tolerant: any field the upstream
// drops renders as a placeholder instead of failing the invocation.
package render

import (
	"time"

	"github.com/jmcallister/weather-widget-service/internal/models"
	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// Current builds the current-conditions widget model.
func Current(data payload.Object, location string, now time.Time, ttl time.Duration, stale bool) models.DisplayModel {
	isDaytime := true
	if v, ok := data.Bool("isDaytime"); ok {
		isDaytime = v
	}
	cond := data.Get("weatherCondition")
	temp := objectAt(data, "temperature")

	scheme := SchemeFor(CelsiusOf(temp))
	if !isDaytime {
		scheme = NightScheme()
	}

	condText, ok := NormalizeConditionText(cond)
	if !ok {
		condText = Absent
	}
	return models.DisplayModel{
		Location:    location,
		UpdatedAt:   now.Format("15:04"),
		Temperature: Temperature(temp),
		FeelsLike:   Temperature(objectAt(data, "feelsLikeTemperature")),
		Humidity:    Humidity(data.Float("relativeHumidity")),
		Wind:        Wind(objectAt(data, "wind")),
		Condition:   condText,
		Symbol:      PickSymbol(cond, isDaytime),
		Scheme:      scheme,
		Stale:       stale,
		NextRefresh: now.Add(ttl),
	}
}

// Forecast builds the multi-day widget model. The headline row comes from the
// first day's daytime sub-record; the strip carries one summary per day in
// upstream order.
func Forecast(data payload.Object, location string, now time.Time, ttl time.Duration, stale bool) models.DisplayModel {
	days, _ := data.List("forecastDays")

	m := models.DisplayModel{
		Location:    location,
		UpdatedAt:   now.Format("15:04"),
		Temperature: Absent,
		FeelsLike:   Absent,
		Humidity:    Absent,
		Wind:        Absent,
		Condition:   Absent,
		Symbol:      SymbolClearDay,
		Scheme:      SchemeFor(0, false),
		Stale:       stale,
		NextRefresh: now.Add(ttl),
	}

	for i, day := range days {
		daytime := objectAt(day, "daytimeForecast")
		m.Days = append(m.Days, models.DaySummary{
			Label:  DayLabel(i, objectAt(day, "displayDate")),
			High:   CompactTemperature(objectAt(day, "maxTemperature")),
			Low:    CompactTemperature(objectAt(day, "minTemperature")),
			Symbol: PickSymbol(daytime.Get("weatherCondition"), true),
		})
	}

	if len(days) > 0 {
		today := days[0]
		daytime := objectAt(today, "daytimeForecast")
		maxTemp := objectAt(today, "maxTemperature")
		cond := daytime.Get("weatherCondition")

		m.Temperature = Temperature(maxTemp)
		m.FeelsLike = Temperature(objectAt(today, "feelsLikeMaxTemperature"))
		m.Humidity = Humidity(daytime.Float("relativeHumidity"))
		m.Wind = Wind(objectAt(daytime, "wind"))
		if condText, ok := NormalizeConditionText(cond); ok {
			m.Condition = condText
		}
		m.Symbol = PickSymbol(cond, true)
		m.Scheme = SchemeFor(CelsiusOf(maxTemp))
	}

	return m
}

// objectAt returns the nested object at path, or a nil Object whose accessors
// all report absence.
func objectAt(o payload.Object, path string) payload.Object {
	nested, _ := o.Object(path)
	return nested
}
