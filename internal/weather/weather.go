package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"foodietour/internal/config"
)

// Report is the weather outcome consumed by the venue filter and reviewer.
type Report struct {
	PrecipProb     float64 `json:"precip_prob"`
	Condition      string  `json:"condition"`
	IndoorRequired bool    `json:"indoor_required"`
	Source         string  `json:"source"`
}

// Clear is the fixed fallback used when the forecast cannot be fetched.
func Clear() Report {
	return Report{PrecipProb: 0, Condition: "clear", IndoorRequired: false, Source: "fallback"}
}

// Client looks up the daily max precipitation probability for a date.
type Client struct {
	cfg  config.Weather
	http *http.Client
}

// NewClient returns a client bound to the provided configuration.
func NewClient(cfg config.Weather) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Lookup returns the forecast for date (YYYY-MM-DD). A probability at or
// above 50% forces the indoor rule. Any failure falls back to Clear();
// weather never fails the pipeline.
func (c *Client) Lookup(ctx context.Context, date string) Report {
	if c == nil {
		return Clear()
	}
	report, err := c.fetch(ctx, date)
	if err != nil {
		return Clear()
	}
	return report
}

func (c *Client) fetch(ctx context.Context, date string) (Report, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return Report{}, fmt.Errorf("parse weather url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("daily", "precipitation_probability_max")
	q.Set("start_date", date)
	q.Set("end_date", date)
	q.Set("timezone", c.cfg.Timezone)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("call weather api: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var payload struct {
		Daily struct {
			PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Report{}, fmt.Errorf("parse weather response: %w", err)
	}

	prob := 0.0
	if len(payload.Daily.PrecipitationProbabilityMax) > 0 {
		prob = payload.Daily.PrecipitationProbabilityMax[0]
	}

	indoor := prob >= 50
	condition := "clear"
	if indoor {
		condition = "rain"
	}
	return Report{
		PrecipProb:     prob,
		Condition:      condition,
		IndoorRequired: indoor,
		Source:         "api",
	}, nil
}
