package venues

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Venue is one candidate tour stop.
type Venue struct {
	Name         string   `json:"name" yaml:"name"`
	Neighborhood string   `json:"neighborhood" yaml:"neighborhood"`
	Tags         []string `json:"tags" yaml:"tags"`
	AvgPrice     float64  `json:"avg_price" yaml:"avg_price"`
	Outdoor      bool     `json:"outdoor" yaml:"outdoor"`
}

// ValidationError captures a single field-specific catalog issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple catalog problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

type rawCatalog struct {
	Venues []Venue `yaml:"venues"`
}

// Builtin returns the fixed fallback catalog used when no venue data source
// is available.
func Builtin() []Venue {
	return []Venue{
		{Name: "Au Cheval", Neighborhood: "West Loop", Tags: []string{"burgers", "indoor", "lively"}, AvgPrice: 40, Outdoor: false},
		{Name: "Pequod's Pizza", Neighborhood: "Lincoln Park", Tags: []string{"pizza", "indoor", "casual"}, AvgPrice: 35, Outdoor: false},
		{Name: "The Publican", Neighborhood: "West Loop", Tags: []string{"new_american", "indoor", "lively"}, AvgPrice: 75, Outdoor: false},
	}
}

// Load reads and validates a venue catalog file. Callers treat any error as
// "data source unavailable" and fall back to Builtin.
func Load(path string) ([]Venue, error) {
	if path == "" {
		return nil, fmt.Errorf("no venue catalog configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue catalog: %w", err)
	}
	return Parse(data, path)
}

// Parse unmarshals and validates a YAML venue catalog.
func Parse(data []byte, source string) ([]Venue, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	var errs ValidationErrors
	if len(raw.Venues) == 0 {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "venues",
			Message: "at least one venue is required",
		})
	}
	for i, v := range raw.Venues {
		if strings.TrimSpace(v.Name) == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fmt.Sprintf("venues[%d].name", i),
				Message: "name is required",
			})
		}
		if v.AvgPrice < 0 {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fmt.Sprintf("venues[%d].avg_price", i),
				Message: "avg_price must not be negative",
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return raw.Venues, nil
}

// Filter applies the indoor rule and the vibe tag match, then returns the
// three cheapest matches, cheapest first. The sort is stable so catalog
// order breaks price ties.
func Filter(catalog []Venue, vibe string, indoorRequired bool) []Venue {
	vibeLC := strings.ToLower(strings.TrimSpace(vibe))

	var filtered []Venue
	for _, v := range catalog {
		if indoorRequired && !v.isIndoor() {
			continue
		}
		if vibeLC != "" && !v.matchesVibe(vibeLC) {
			continue
		}
		filtered = append(filtered, v)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].AvgPrice < filtered[j].AvgPrice
	})
	if len(filtered) > 3 {
		filtered = filtered[:3]
	}
	return filtered
}

func (v Venue) isIndoor() bool {
	for _, t := range v.Tags {
		if strings.EqualFold(t, "indoor") {
			return true
		}
	}
	return !v.Outdoor
}

func (v Venue) matchesVibe(vibeLC string) bool {
	for _, t := range v.Tags {
		if strings.Contains(strings.ToLower(t), vibeLC) {
			return true
		}
	}
	return false
}
