package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLatitudeRange is returned when latitude is outside WGS84 bounds.
var ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")

// ErrLongitudeRange is returned when longitude is outside WGS84 bounds.
var ErrLongitudeRange = errors.New("longitude out of range [-180, 180]")

// ErrLanguageTag is returned for a malformed language tag.
var ErrLanguageTag = errors.New("invalid language tag")

// ErrDayCount is returned when the forecast day count is outside bounds.
var ErrDayCount = errors.New("day count out of range [1, 10]")

// ValidateCoordinates enforces WGS84 ranges on a coordinate pair.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %v", ErrLatitudeRange, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: %v", ErrLongitudeRange, lon)
	}
	return nil
}

// ValidateLanguageTag accepts BCP-47-shaped tags: subtags of length 2-8
// separated by hyphens ("en", "de-AT", "pt-BR"). Digits are allowed past the
// primary subtag.
func ValidateLanguageTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: empty", ErrLanguageTag)
	}
	for i, sub := range strings.Split(tag, "-") {
		if len(sub) < 2 || len(sub) > 8 {
			return fmt.Errorf("%w: %q", ErrLanguageTag, tag)
		}
		for _, r := range sub {
			letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			digit := r >= '0' && r <= '9'
			if !letter && !(digit && i > 0) {
				return fmt.Errorf("%w: %q", ErrLanguageTag, tag)
			}
		}
	}
	return nil
}

// ValidateDays enforces the forecast day-count bounds.
func ValidateDays(days int) error {
	if days < 1 || days > 10 {
		return fmt.Errorf("%w: %d", ErrDayCount, days)
	}
	return nil
}
