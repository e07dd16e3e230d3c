// Package catalog serves the fixed list of cities offered in route pickers.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

//go:embed cities.json
var citiesJSON []byte

// City is a selectable route endpoint.
type City struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
}

// Catalog is an immutable city list.
type Catalog struct {
	cities []City
}

// Load parses the embedded city list.
func Load() (*Catalog, error) {
	var cities []City
	if err := json.Unmarshal(citiesJSON, &cities); err != nil {
		return nil, fmt.Errorf("parse city catalog: %w", err)
	}
	return New(cities), nil
}

// New creates a catalog from cities.
func New(cities []City) *Catalog {
	return &Catalog{cities: slices.Clone(cities)}
}

// Search returns cities whose name, country or region contains query,
// ignoring case. A blank query returns every city.
func (c *Catalog) Search(query string) []City {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return slices.Clone(c.cities)
	}

	result := make([]City, 0)
	for _, city := range c.cities {
		if strings.Contains(strings.ToLower(city.Name), term) ||
			strings.Contains(strings.ToLower(city.Country), term) ||
			strings.Contains(strings.ToLower(city.Region), term) {
			result = append(result, city)
		}
	}
	return result
}

// Countries returns the distinct countries, sorted.
func (c *Catalog) Countries() []string {
	var countries []string
	for _, city := range c.cities {
		if !slices.Contains(countries, city.Country) {
			countries = append(countries, city.Country)
		}
	}
	slices.Sort(countries)
	return countries
}

// ByCountry returns the cities of one country in catalog order.
func (c *Catalog) ByCountry(country string) []City {
	result := make([]City, 0)
	for _, city := range c.cities {
		if city.Country == country {
			result = append(result, city)
		}
	}
	return result
}
