package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultJobIntervals(t *testing.T) {
	t.Setenv("TRENDING_UPDATE_INTERVAL", "")
	t.Setenv("POPULARITY_UPDATE_INTERVAL", "")

	cfg := Load()

	if cfg.TrendingUpdateInterval != 30*time.Minute {
		t.Errorf("Expected trending interval 30m, got %s", cfg.TrendingUpdateInterval)
	}
	if cfg.PopularityUpdateInterval != 3*time.Hour {
		t.Errorf("Expected popularity interval 3h, got %s", cfg.PopularityUpdateInterval)
	}
}

func TestLoad_JobIntervalOverrides(t *testing.T) {
	t.Setenv("TRENDING_UPDATE_INTERVAL", "10m")
	t.Setenv("POPULARITY_UPDATE_INTERVAL", "1h")

	cfg := Load()

	if cfg.TrendingUpdateInterval != 10*time.Minute {
		t.Errorf("Expected trending interval 10m, got %s", cfg.TrendingUpdateInterval)
	}
	if cfg.PopularityUpdateInterval != time.Hour {
		t.Errorf("Expected popularity interval 1h, got %s", cfg.PopularityUpdateInterval)
	}
}

func TestGetDurationEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"unparseable", "soon"},
		{"zero", "0s"},
		{"negative", "-5m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRENDING_UPDATE_INTERVAL", tt.value)
			if got := getDurationEnv("TRENDING_UPDATE_INTERVAL", 30*time.Minute); got != 30*time.Minute {
				t.Errorf("Expected fallback to default, got %s", got)
			}
		})
	}
}
