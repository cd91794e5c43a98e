package budget

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler serves the budget split protocol: POST /split_budget computes an
// allocation, GET /health reports liveness. The tour pipeline works without
// this service running; it exists so a shared deployment can own the split
// policy.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/split_budget", handleSplit)
	mux.HandleFunc("/health", handleHealth)
	return mux
}

func handleSplit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.BudgetPerPerson <= 0 {
		http.Error(w, "budget_per_person must be positive", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SplitLocal(req.BudgetPerPerson, req.Stops))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
