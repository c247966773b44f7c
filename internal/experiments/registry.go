package experiments

// Definition describes one experiment: its name and the variants users
// can be bucketed into. Variant order matters: bucketing is index-based.
type Definition struct {
	Name     string
	Variants []string
}

// Registry is the immutable experiment catalog, built once at startup and
// passed by reference. There is deliberately no way to mutate it after
// construction; redefining an experiment mid-flight would break the
// stable user→variant mapping.
type Registry struct {
	defs map[string]Definition
}

// ExperimentRecommendationAlgorithm selects which recommendation strategy
// serves a user's personalized feed.
const ExperimentRecommendationAlgorithm = "recommendation_algorithm"

// Recommendation algorithm variants
const (
	VariantCollaborative = "collaborative-filtering"
	VariantContentBased  = "content-based"
	VariantHybrid        = "hybrid"
)

// DefaultDefinitions returns the experiments the engine ships with
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:     ExperimentRecommendationAlgorithm,
			Variants: []string{VariantCollaborative, VariantContentBased, VariantHybrid},
		},
	}
}

// NewRegistry builds an immutable registry from definitions. Definitions
// without variants are dropped.
func NewRegistry(defs []Definition) *Registry {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if len(d.Variants) == 0 {
			continue
		}
		variants := make([]string, len(d.Variants))
		copy(variants, d.Variants)
		m[d.Name] = Definition{Name: d.Name, Variants: variants}
	}
	return &Registry{defs: m}
}

// Lookup returns the definition for an experiment name
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns all registered experiment names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}
