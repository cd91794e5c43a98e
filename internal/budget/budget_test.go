package budget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodietour/internal/config"
)

func TestSplitLocalThreeStops(t *testing.T) {
	split := SplitLocal(100, 3)
	want := []float64{45, 27, 18}
	if len(split.PerStop) != len(want) {
		t.Fatalf("len(PerStop) = %d, want %d", len(split.PerStop), len(want))
	}
	for i, w := range want {
		if split.PerStop[i] != w {
			t.Fatalf("PerStop[%d] = %v, want %v", i, split.PerStop[i], w)
		}
	}
	if got, want := split.PerPersonTotal, 90.0; got != want {
		t.Fatalf("PerPersonTotal = %v, want %v", got, want)
	}
	if got, want := split.BufferPct, 0.1; got != want {
		t.Fatalf("BufferPct = %v, want %v", got, want)
	}
}

func TestSplitLocalRenormalizesShortPlans(t *testing.T) {
	split := SplitLocal(100, 2)
	want := []float64{56.25, 33.75}
	for i, w := range want {
		if split.PerStop[i] != w {
			t.Fatalf("PerStop[%d] = %v, want %v", i, split.PerStop[i], w)
		}
	}

	if got := SplitLocal(100, 1).PerStop; len(got) != 1 || got[0] != 90 {
		t.Fatalf("single stop split = %v, want [90]", got)
	}
}

func TestSplitLocalEvenBeyondThreeStops(t *testing.T) {
	split := SplitLocal(100, 4)
	for i, v := range split.PerStop {
		if v != 22.5 {
			t.Fatalf("PerStop[%d] = %v, want 22.5", i, v)
		}
	}
}

func TestSplitLocalClampsStopCount(t *testing.T) {
	if got := SplitLocal(50, 0).PerStop; len(got) != 1 {
		t.Fatalf("zero stops produced %d allocations, want 1", len(got))
	}
	if got := SplitLocal(50, -3).PerStop; len(got) != 1 {
		t.Fatalf("negative stops produced %d allocations, want 1", len(got))
	}
}

func TestClientUsesRemoteService(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	client := NewClient(config.BudgetService{URL: srv.URL, Timeout: 2 * time.Second})
	split, remote := client.SplitBudget(context.Background(), 100, 3)
	if !remote {
		t.Fatal("remote = false, want true")
	}
	if got, want := split.PerStop[0], 45.0; got != want {
		t.Fatalf("PerStop[0] = %v, want %v", got, want)
	}
}

func TestClientFallsBackWhenUnreachable(t *testing.T) {
	client := NewClient(config.BudgetService{URL: "http://127.0.0.1:1", Timeout: time.Second})
	split, remote := client.SplitBudget(context.Background(), 100, 3)
	if remote {
		t.Fatal("remote = true, want false")
	}
	if got, want := split.PerPersonTotal, 90.0; got != want {
		t.Fatalf("PerPersonTotal = %v, want %v", got, want)
	}
}

func TestClientFallsBackWhenUnconfigured(t *testing.T) {
	client := NewClient(config.BudgetService{})
	if _, remote := client.SplitBudget(context.Background(), 100, 2); remote {
		t.Fatal("remote = true, want false for empty URL")
	}

	var nilClient *Client
	if _, remote := nilClient.SplitBudget(context.Background(), 100, 2); remote {
		t.Fatal("remote = true, want false for nil client")
	}
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/split_budget", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	resp, err = http.Post(srv.URL+"/split_budget", "application/json", strings.NewReader(`{"budget_per_person":0,"stops":3}`))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	resp, err = http.Get(srv.URL + "/split_budget")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status = %q, want healthy", body["status"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"]); err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", body["timestamp"], err)
	}
}
