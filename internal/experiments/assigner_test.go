package experiments

import (
	"context"
	"fmt"
	"testing"

	"lyricverse/internal/cache"
)

func testAssigner() *Assigner {
	return NewAssigner(NewRegistry(DefaultDefinitions()), cache.NewMemory())
}

func TestVariant_Deterministic(t *testing.T) {
	a := testAssigner()

	first := a.Variant("user-42", ExperimentRecommendationAlgorithm)
	if first == "" {
		t.Fatal("Expected a variant")
	}

	// Repeated calls must agree, including with a fresh assigner
	// simulating a process restart
	for i := 0; i < 10; i++ {
		if got := a.Variant("user-42", ExperimentRecommendationAlgorithm); got != first {
			t.Fatalf("Call %d returned %q, expected %q", i, got, first)
		}
	}
	fresh := testAssigner()
	if got := fresh.Variant("user-42", ExperimentRecommendationAlgorithm); got != first {
		t.Fatalf("Fresh assigner returned %q, expected %q", got, first)
	}
}

func TestVariant_ApproximatelyUniform(t *testing.T) {
	a := NewAssigner(NewRegistry(DefaultDefinitions()), nil)

	const n = 30000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[a.Variant(fmt.Sprintf("user-%d", i), ExperimentRecommendationAlgorithm)]++
	}

	if len(counts) != 3 {
		t.Fatalf("Expected all 3 variants to appear, got %v", counts)
	}

	expected := n / 3
	for variant, count := range counts {
		// 10% tolerance is far looser than FNV-1a actually needs
		if count < expected*9/10 || count > expected*11/10 {
			t.Errorf("Variant %s got %d of %d assignments, expected ~%d", variant, count, n, expected)
		}
	}
}

func TestVariant_UnknownExperimentFallsBack(t *testing.T) {
	a := testAssigner()

	if got := a.Variant("user-1", ExperimentRecommendationAlgorithm+"_v2"); got != "" {
		t.Errorf("Expected empty variant for unknown experiment, got %q", got)
	}

	empty := NewAssigner(NewRegistry(nil), nil)
	if got := empty.Variant("user-1", ExperimentRecommendationAlgorithm); got != VariantHybrid {
		t.Errorf("Expected hybrid fallback for unregistered recommendation experiment, got %q", got)
	}
}

func TestRecordConversion_RequiresAssignment(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	a := NewAssigner(NewRegistry(DefaultDefinitions()), store)

	// No assignment recorded: conversion must be a no-op
	a.RecordConversion(ctx, "user-1", ExperimentRecommendationAlgorithm, "click")

	metrics, err := a.Metrics(ctx, ExperimentRecommendationAlgorithm)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	for _, vm := range metrics.Variants {
		if vm.Conversions["click"] != 0 {
			t.Errorf("Variant %s booked a conversion without an assignment", vm.Variant)
		}
	}
}

func TestExposureAndConversionFlow(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	a := NewAssigner(NewRegistry(DefaultDefinitions()), store)

	variant := a.Variant("user-7", ExperimentRecommendationAlgorithm)
	// Record synchronously so the test doesn't race the detached goroutine
	a.recordExposure(ctx, "user-7", ExperimentRecommendationAlgorithm, variant)

	a.RecordConversion(ctx, "user-7", ExperimentRecommendationAlgorithm, "click")
	a.RecordConversion(ctx, "user-7", ExperimentRecommendationAlgorithm, "click")

	metrics, err := a.Metrics(ctx, ExperimentRecommendationAlgorithm)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}

	var found bool
	for _, vm := range metrics.Variants {
		if vm.Variant != variant {
			continue
		}
		found = true
		if vm.Exposures < 1 {
			t.Errorf("Expected at least 1 exposure, got %d", vm.Exposures)
		}
		if vm.Conversions["click"] != 2 {
			t.Errorf("Expected 2 click conversions, got %d", vm.Conversions["click"])
		}
		if vm.ConversionRates["click"] <= 0 {
			t.Errorf("Expected positive click conversion rate, got %f", vm.ConversionRates["click"])
		}
	}
	if !found {
		t.Fatalf("Variant %s missing from metrics", variant)
	}
}

func TestExposureLogIsCapped(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	a := NewAssigner(NewRegistry(DefaultDefinitions()), store)

	for i := 0; i < exposureLogCap+50; i++ {
		user := fmt.Sprintf("user-%d", i)
		a.recordExposure(ctx, user, ExperimentRecommendationAlgorithm, VariantHybrid)
	}

	entries, err := store.Recent(ctx, "exp:"+ExperimentRecommendationAlgorithm+":log", exposureLogCap*2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != exposureLogCap {
		t.Errorf("Expected log capped at %d, got %d", exposureLogCap, len(entries))
	}
}

func TestMetrics_UnknownExperiment(t *testing.T) {
	a := testAssigner()
	if _, err := a.Metrics(context.Background(), "does_not_exist"); err == nil {
		t.Fatal("Expected error for unknown experiment")
	}
}
