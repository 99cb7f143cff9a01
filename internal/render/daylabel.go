package render

import (
	"fmt"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// DayLabel derives the forecast strip label for the day at index from its
// {year, month, day} display date. An unusable date falls back to "Today"
// for the first row and "+N" for the rest.
func DayLabel(index int, date payload.Object) string {
	year, okY := date.Int("year")
	month, okM := date.Int("month")
	day, okD := date.Int("day")
	if okY && okM && okD && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return t.Format("Mon")
	}
	if index == 0 {
		return "Today"
	}
	return fmt.Sprintf("+%d", index)
}
