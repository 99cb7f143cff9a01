package models

import "time"

// Variant identifies which upstream lookup a payload or cache record belongs to.
type Variant string

const (
	VariantCurrent  Variant = "current"
	VariantForecast Variant = "forecast"
)

// ColorScheme is a named two-stop background gradient for the widget.
type ColorScheme struct {
	Name   string    `json:"name"`
	Colors [2]string `json:"colors"`
}

// DaySummary is one row of the forecast strip: a weekday label and compact
// high/low temperature strings plus the day's icon.
type DaySummary struct {
	Label  string `json:"label"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Symbol string `json:"symbol"`
}

// DisplayModel is the presenter output handed to the render target. It is
// recomputed on every invocation and never persisted.
type DisplayModel struct {
	Location    string       `json:"location"`
	UpdatedAt   string       `json:"updatedAt"`
	Temperature string       `json:"temperature"`
	FeelsLike   string       `json:"feelsLike"`
	Humidity    string       `json:"humidity"`
	Wind        string       `json:"wind"`
	Condition   string       `json:"condition"`
	Symbol      string       `json:"symbol"`
	Scheme      ColorScheme  `json:"scheme"`
	Days        []DaySummary `json:"days,omitempty"`
	Stale       bool         `json:"stale,omitempty"`
	NextRefresh time.Time    `json:"nextRefresh"`
}
