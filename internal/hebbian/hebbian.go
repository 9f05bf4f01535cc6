// Package hebbian implements the co-activation learning rule: counter-based
// link formation, strengthening, and decay (spec §4.4). It is a pure
// bookkeeping layer on top of internal/store's Hebbian CRUD, grounded on the
// counter-driven synapse-formation shape in the example pack's Hebbian
// engine (qubicdb's pkg/synapse).
package hebbian

// Params bundles the tunable Hebbian constants (spec §9 glossary defaults).
type Params struct {
	FormThreshold int     // θ_form: co-activation count needed to materialize a link
	Eta           float64 // η: strengthening rate
	MaxStrength   float64 // S_max: strengthening cap
	Decay         float64 // λ_heb: per-cycle multiplicative decay
	PruneBelow    float64 // links weaker than this are removed after decay
}

// DefaultParams returns the glossary defaults.
func DefaultParams() Params {
	return Params{
		FormThreshold: 3,
		Eta:           0.1,
		MaxStrength:   5.0,
		Decay:         0.95,
		PruneBelow:    0.1,
	}
}

// CanonicalPair orders two distinct memory ids so a<b, the storage
// convention for symmetric Hebbian links.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// NextCoActivation increments a pair's co-activation counter and reports
// whether a link should now exist (counter has reached θ_form) and, if the
// link already existed, its new strength after one strengthening step.
//
//   - existed == false, shouldExist == true: form a new link at strength 1.0.
//   - existed == true: multiply strength by (1+η), capped at S_max.
//   - counter has not yet reached θ_form: no link action.
func NextCoActivation(counter int, existed bool, currentStrength float64, p Params) (newCounter int, shouldExist bool, newStrength float64) {
	newCounter = counter + 1

	if !existed {
		if newCounter >= p.FormThreshold {
			return newCounter, true, 1.0
		}
		return newCounter, false, 0
	}

	strengthened := currentStrength * (1 + p.Eta)
	if strengthened > p.MaxStrength {
		strengthened = p.MaxStrength
	}
	return newCounter, true, strengthened
}

// Decay applies one consolidation cycle's multiplicative decay to a link's
// strength and reports whether the link should now be removed (spec §4.4).
func Decay(strength float64, p Params) (newStrength float64, shouldRemove bool) {
	newStrength = strength * p.Decay
	return newStrength, newStrength < p.PruneBelow
}

// CoActivatedPairs returns every unordered pair from a retrieval result list
// L (spec §4.4: "for every unordered pair (a,b) in L, increment a counter").
func CoActivatedPairs(ids []string) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := CanonicalPair(ids[i], ids[j])
			pairs = append(pairs, [2]string{a, b})
		}
	}
	return pairs
}
