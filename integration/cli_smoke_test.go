package integration_test

import (
	"path/filepath"
	"strings"
	"testing"

	"foodietour/integration/harness"
	"foodietour/internal/audit"
)

// offlineEnv points every network collaborator at an unreachable port so the
// run exercises the deterministic fallback paths end to end.
func offlineEnv() map[string]string {
	return map[string]string{
		"FOODIETOUR_WEATHER_URL":     "http://127.0.0.1:1",
		"FOODIETOUR_WEATHER_TIMEOUT": "1",
		"OLLAMA_BASE_URL":            "http://127.0.0.1:1",
		"OLLAMA_TIMEOUT":             "1",
		"BUDGET_SERVICE_URL":         "http://127.0.0.1:1",
		"BUDGET_SERVICE_TIMEOUT":     "1",
	}
}

func TestCLISmoke(t *testing.T) {
	binPath := harness.BuildBinary(t)
	runDir := t.TempDir()

	stdout, stderr, code := harness.Run(t, binPath, runDir, []string{"--help"}, nil)
	if code != 0 {
		t.Fatalf("foodietour --help exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout+stderr, "multi-agent food tour planning") {
		t.Fatalf("expected help header\nstdout:\n%s\nstderr:\n%s", stdout, stderr)
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{"plan", "--steps", "scout_venues,check_weather,review"}, nil)
	if code != 0 {
		t.Fatalf("foodietour plan exit code %d\nstderr:\n%s", code, stderr)
	}
	wantOrder := "check_weather -> scout_venues -> split_budget -> write_itinerary -> review"
	if !strings.Contains(stdout, wantOrder) {
		t.Fatalf("plan output missing normalized order %q:\n%s", wantOrder, stdout)
	}
	if !strings.Contains(stdout, "weather_first_rule") {
		t.Fatalf("plan output missing correction notes:\n%s", stdout)
	}
}

func TestTourOfflineSmoke(t *testing.T) {
	binPath := harness.BuildBinary(t)
	runDir := t.TempDir()
	auditDB := filepath.Join(t.TempDir(), "events.db")

	args := []string{
		"tour",
		"--city", "Chicago",
		"--vibe", "lively",
		"--date", "2026-08-25",
		"--budget", "100",
		"--audit-db", auditDB,
		"--analyze",
	}
	stdout, stderr, code := harness.Run(t, binPath, runDir, args, offlineEnv())
	if code != 0 {
		t.Fatalf("foodietour tour exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}

	for _, want := range []string{
		"FOODIE TOUR PLAN COMPLETE",
		"fell back to the default order",
		"Au Cheval",
		"Review score: 0.6/1.0",
		"REASONING ANALYSIS",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("tour output missing %q:\n%s", want, stdout)
		}
	}

	events, err := audit.NewLogger(auditDB).Recent(50)
	if err != nil {
		t.Fatalf("read audit db: %v", err)
	}
	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.Type] = true
	}
	for _, want := range []string{"tour_started", "plan_normalized", "step_started", "step_finished", "tour_finished"} {
		if !seen[want] {
			t.Fatalf("missing audit event %s; have %v", want, seen)
		}
	}

	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{"audit", "--audit-db", auditDB, "--limit", "5"}, nil)
	if code != 0 {
		t.Fatalf("foodietour audit exit code %d\nstderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "tour_finished") {
		t.Fatalf("audit output missing tour_finished:\n%s", stdout)
	}
}
