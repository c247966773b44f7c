package experiments

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"lyricverse/internal/cache"
)

// Assignment key layout in the counter store:
//
//	exp:{name}:assign:{userID}       -> variant           (assignment record)
//	exp:{name}:{variant}:exposures   -> counter
//	exp:{name}:{variant}:conv:{type} -> counter
//	exp:{name}:log                   -> capped ring buffer of recent exposures
const exposureLogCap = 1000

// assignmentTTL bounds how long an assignment record (and therefore
// conversion attribution) survives without re-exposure.
const assignmentTTL = 90 * 24 * time.Hour

// metricsCacheTTL memoizes Metrics() aggregation in-process; the readout
// tolerates a minute of staleness.
const metricsCacheTTL = time.Minute

// Assigner buckets users into experiment variants deterministically and
// records exposures/conversions in the counter store on a best-effort
// basis. The decision path never touches I/O.
type Assigner struct {
	registry *Registry
	store    cache.CounterStore
	metrics  *gocache.Cache

	// recordTimeout bounds the detached exposure-recording goroutine
	recordTimeout time.Duration
}

// NewAssigner creates an assigner over an immutable registry. store may be
// nil, in which case decisions still work but nothing is recorded.
func NewAssigner(registry *Registry, store cache.CounterStore) *Assigner {
	return &Assigner{
		registry:      registry,
		store:         store,
		metrics:       gocache.New(metricsCacheTTL, 5*time.Minute),
		recordTimeout: 3 * time.Second,
	}
}

// Variant returns the variant for (userID, experiment). It is a pure
// function of its inputs: the FNV-1a hash of "userID:experiment" reduced
// modulo the variant count, so repeated calls agree even across process
// restarts. Unknown experiments fall back to the hybrid algorithm for
// the recommendation experiment and are otherwise empty.
//
// As a side effect it fires a non-blocking goroutine to record the
// exposure; that recording can fail or lag without affecting the return.
func (a *Assigner) Variant(userID, experiment string) string {
	def, ok := a.registry.Lookup(experiment)
	if !ok {
		if experiment == ExperimentRecommendationAlgorithm {
			return VariantHybrid
		}
		return ""
	}

	h := fnv.New32a()
	h.Write([]byte(userID + ":" + experiment))
	variant := def.Variants[h.Sum32()%uint32(len(def.Variants))]

	a.recordExposureAsync(userID, experiment, variant)

	return variant
}

// recordExposureAsync persists the exposure without blocking the caller
func (a *Assigner) recordExposureAsync(userID, experiment, variant string) {
	if a.store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.recordTimeout)
		defer cancel()
		a.recordExposure(ctx, userID, experiment, variant)
	}()
}

// recordExposure persists the counter, assignment record, and ring-buffer
// entry for one exposure. Failures are logged, never surfaced.
func (a *Assigner) recordExposure(ctx context.Context, userID, experiment, variant string) {
	if _, err := a.store.Incr(ctx, fmt.Sprintf("exp:%s:%s:exposures", experiment, variant)); err != nil {
		log.Printf("⚠️ [EXPERIMENTS] Exposure counter failed for %s/%s: %v", experiment, variant, err)
		return
	}

	assignKey := fmt.Sprintf("exp:%s:assign:%s", experiment, userID)
	if err := a.store.Set(ctx, assignKey, variant, assignmentTTL); err != nil {
		log.Printf("⚠️ [EXPERIMENTS] Assignment record failed for %s: %v", assignKey, err)
	}

	entry, _ := json.Marshal(exposureLogEntry{
		UserID:    userID,
		Variant:   variant,
		Timestamp: time.Now().UTC(),
	})
	if err := a.store.PushCapped(ctx, fmt.Sprintf("exp:%s:log", experiment), string(entry), exposureLogCap); err != nil {
		log.Printf("⚠️ [EXPERIMENTS] Exposure log push failed for %s: %v", experiment, err)
	}
}

type exposureLogEntry struct {
	UserID    string    `json:"user_id"`
	Variant   string    `json:"variant"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordConversion attributes a conversion to the variant previously
// recorded for (userID, experiment). If no assignment record exists the
// conversion is dropped with a warning; an assignment is never fabricated
// just to book a conversion.
func (a *Assigner) RecordConversion(ctx context.Context, userID, experiment, conversionType string) {
	if a.store == nil {
		return
	}

	variant, err := a.store.Get(ctx, fmt.Sprintf("exp:%s:assign:%s", experiment, userID))
	if err != nil {
		log.Printf("⚠️ [EXPERIMENTS] Conversion %q for user %s dropped: no recorded assignment for %s", conversionType, userID, experiment)
		return
	}

	key := fmt.Sprintf("exp:%s:%s:conv:%s", experiment, variant, conversionType)
	if _, err := a.store.Incr(ctx, key); err != nil {
		log.Printf("⚠️ [EXPERIMENTS] Conversion counter failed for %s: %v", key, err)
	}
}

// VariantMetrics aggregates one variant's counters
type VariantMetrics struct {
	Variant         string             `json:"variant"`
	Exposures       int64              `json:"exposures"`
	Conversions     map[string]int64   `json:"conversions"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// ExperimentMetrics is the per-experiment readout
type ExperimentMetrics struct {
	Experiment string           `json:"experiment"`
	Variants   []VariantMetrics `json:"variants"`
}

// Tracked conversion types. Counters outside this list still accumulate
// but do not appear in the readout.
var conversionTypes = []string{"click", "like", "share", "save"}

// Metrics aggregates exposure and conversion counters into per-variant
// conversion rates. Missing counters default to 0; partial data is fine.
// Results are memoized in-process for a minute.
func (a *Assigner) Metrics(ctx context.Context, experiment string) (*ExperimentMetrics, error) {
	def, ok := a.registry.Lookup(experiment)
	if !ok {
		return nil, fmt.Errorf("unknown experiment: %s", experiment)
	}

	if cached, found := a.metrics.Get(experiment); found {
		return cached.(*ExperimentMetrics), nil
	}

	out := &ExperimentMetrics{Experiment: experiment}
	for _, variant := range def.Variants {
		vm := VariantMetrics{
			Variant:         variant,
			Conversions:     make(map[string]int64),
			ConversionRates: make(map[string]float64),
		}

		vm.Exposures = a.counter(ctx, fmt.Sprintf("exp:%s:%s:exposures", experiment, variant))
		for _, ct := range conversionTypes {
			count := a.counter(ctx, fmt.Sprintf("exp:%s:%s:conv:%s", experiment, variant, ct))
			vm.Conversions[ct] = count
			if vm.Exposures > 0 {
				vm.ConversionRates[ct] = float64(count) / float64(vm.Exposures)
			}
		}

		out.Variants = append(out.Variants, vm)
	}

	a.metrics.Set(experiment, out, gocache.DefaultExpiration)
	return out, nil
}

// counter reads a counter key, defaulting to 0 on absence or error
func (a *Assigner) counter(ctx context.Context, key string) int64 {
	if a.store == nil {
		return 0
	}
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
