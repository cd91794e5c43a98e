package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"foodietour/internal/config"
)

// Client asks the budget service for a split, falling back to the local
// computation when the service is unconfigured or unreachable. Both paths
// produce identical numbers, so the fallback is silent by design of the
// protocol: the second return value reports which path was taken.
type Client struct {
	cfg  config.BudgetService
	http *http.Client
}

// NewClient returns a client bound to the provided configuration.
func NewClient(cfg config.BudgetService) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type splitRequest struct {
	BudgetPerPerson float64 `json:"budget_per_person"`
	Stops           int     `json:"stops"`
}

// SplitBudget returns the allocation for total across stops. The bool
// reports whether the remote service supplied it.
func (c *Client) SplitBudget(ctx context.Context, total float64, stops int) (Split, bool) {
	if c == nil || c.cfg.URL == "" {
		return SplitLocal(total, stops), false
	}
	split, err := c.remote(ctx, total, stops)
	if err != nil {
		return SplitLocal(total, stops), false
	}
	return split, true
}

func (c *Client) remote(ctx context.Context, total float64, stops int) (Split, error) {
	body, err := json.Marshal(splitRequest{BudgetPerPerson: total, Stops: stops})
	if err != nil {
		return Split{}, err
	}

	url := strings.TrimRight(c.cfg.URL, "/") + "/split_budget"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Split{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Split{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Split{}, fmt.Errorf("budget service status %d", resp.StatusCode)
	}

	var split Split
	if err := json.NewDecoder(resp.Body).Decode(&split); err != nil {
		return Split{}, fmt.Errorf("parse budget response: %w", err)
	}
	return split, nil
}
