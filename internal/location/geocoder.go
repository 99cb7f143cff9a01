package location

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const defaultGeocoderURL = "https://geocode.maps.co/search"

// Geocoder resolves a configured place name to coordinates once per
// invocation. The resolved label keeps the configured name so the widget
// header stays predictable.
type Geocoder struct {
	apiKey  string
	query   string
	baseURL string
	client  *resty.Client
}

// NewGeocoder creates a Geocoder for the given place query.
func NewGeocoder(apiKey, query string) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		query:   query,
		baseURL: defaultGeocoderURL,
		client:  resty.New(),
	}
}

type geocodeMatch struct {
	Lat   string `json:"lat"`
	Lon   string `json:"lon"`
	Class string `json:"class"`
	Type  string `json:"type"`
}

// Locate implements Provider.
func (g *Geocoder) Locate(ctx context.Context) (Place, error) {
	request := g.client.R().SetContext(ctx)
	request.SetQueryParams(map[string]string{
		"api_key": g.apiKey,
		"q":       g.query,
	})

	response, err := request.Get(g.baseURL)
	if err != nil {
		return Place{}, fmt.Errorf("geocode %q: %w", g.query, err)
	}
	if response.StatusCode() != 200 {
		return Place{}, fmt.Errorf("geocode %q: status code %d", g.query, response.StatusCode())
	}

	var matches []geocodeMatch
	if err := json.Unmarshal(response.Body(), &matches); err != nil {
		return Place{}, fmt.Errorf("geocode %q: %w", g.query, err)
	}

	for _, m := range matches {
		if m.Type == "city" && m.Class == "place" ||
			m.Type == "administrative" && m.Class == "boundary" {
			lat, err := parseCoordinate(m.Lat)
			if err != nil {
				return Place{}, err
			}
			lon, err := parseCoordinate(m.Lon)
			if err != nil {
				return Place{}, err
			}
			return Place{Latitude: lat, Longitude: lon, Label: g.query}, nil
		}
	}

	return Place{}, fmt.Errorf("geocode %q: %w", g.query, ErrNotFound)
}
