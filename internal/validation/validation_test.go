package validation

import (
	"errors"
	"testing"
)

// TestValidateCoordinates verifies WGS84 bounds on both axes.
func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		wantErr  error
	}{
		{"valid", 52.52, 13.405, nil},
		{"equator meridian", 0, 0, nil},
		{"poles", -90, 180, nil},
		{"lat too high", 90.1, 0, ErrLatitudeRange},
		{"lat too low", -91, 0, ErrLatitudeRange},
		{"lon too high", 0, 181, ErrLongitudeRange},
		{"lon too low", 0, -180.5, ErrLongitudeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lon)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateCoordinates() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCoordinates() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateLanguageTag verifies accepted and rejected tag shapes.
func TestValidateLanguageTag(t *testing.T) {
	valid := []string{"en", "de", "de-AT", "pt-BR", "zh-Hant", "es-419"}
	for _, tag := range valid {
		if err := ValidateLanguageTag(tag); err != nil {
			t.Errorf("ValidateLanguageTag(%q) = %v, want nil", tag, err)
		}
	}

	invalid := []string{"", "e", "en_US", "en-", "123", "toolongsubtag1"}
	for _, tag := range invalid {
		if err := ValidateLanguageTag(tag); !errors.Is(err, ErrLanguageTag) {
			t.Errorf("ValidateLanguageTag(%q) = %v, want ErrLanguageTag", tag, err)
		}
	}
}

// TestValidateDays verifies the forecast day-count bounds.
func TestValidateDays(t *testing.T) {
	for _, days := range []int{1, 5, 10} {
		if err := ValidateDays(days); err != nil {
			t.Errorf("ValidateDays(%d) = %v, want nil", days, err)
		}
	}
	for _, days := range []int{0, -1, 11} {
		if err := ValidateDays(days); !errors.Is(err, ErrDayCount) {
			t.Errorf("ValidateDays(%d) = %v, want ErrDayCount", days, err)
		}
	}
}
