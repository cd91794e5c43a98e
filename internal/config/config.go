package config

import (
	"os"
	"strconv"
	"time"
)

// Weather configures the Open-Meteo forecast lookup.
type Weather struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timezone  string
	Timeout   time.Duration
}

// LLM configures the Ollama-compatible generation service.
type LLM struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// BudgetService configures the remote budget split service.
type BudgetService struct {
	URL     string
	Timeout time.Duration
}

// App is the full application configuration, resolved once in main and
// passed down explicitly. No package keeps ambient configuration state.
type App struct {
	Weather       Weather
	LLM           LLM
	BudgetService BudgetService
	VenuesPath    string
	AuditDB       string
}

// FromEnv resolves configuration from the environment with local-dev
// defaults (Chicago coordinates, a local Ollama, a local budget service).
func FromEnv() App {
	return App{
		Weather: Weather{
			BaseURL:   envString("FOODIETOUR_WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
			Latitude:  envFloat("FOODIETOUR_LATITUDE", 41.8781),
			Longitude: envFloat("FOODIETOUR_LONGITUDE", -87.6298),
			Timezone:  envString("FOODIETOUR_TIMEZONE", "America/Chicago"),
			Timeout:   envSeconds("FOODIETOUR_WEATHER_TIMEOUT", 10),
		},
		LLM: LLM{
			BaseURL:     envString("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:       envString("OLLAMA_MODEL", "llama3.2:3b"),
			Temperature: envFloat("LLM_TEMPERATURE", 0.3),
			Timeout:     envSeconds("OLLAMA_TIMEOUT", 30),
		},
		BudgetService: BudgetService{
			URL:     envString("BUDGET_SERVICE_URL", "http://localhost:8001"),
			Timeout: envSeconds("BUDGET_SERVICE_TIMEOUT", 5),
		},
		VenuesPath: envString("FOODIETOUR_VENUES", ""),
		AuditDB:    envString("FOODIETOUR_AUDIT_DB", "audit/events.db"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envSeconds(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(parsed) * time.Second
}
