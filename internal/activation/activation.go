// Package activation implements the engine's composite retrieval-activation
// score: pure, deterministic functions over access history, context
// keywords, importance, contradiction state, and Hebbian neighbor strength.
// Modeled on ACT-R base-level activation and the hybrid cognitive scoring
// style used across the example pack's search components.
package activation

import (
	"math"
	"strings"
	"time"
)

// epsilon guards the zero-elapsed-time singularity in base-level activation.
const epsilon = 0.01

// decayExponent is the ACT-R base-level decay exponent d.
const decayExponent = 0.5

// Weights bundles the tunable coefficients used to combine activation terms
// (spec §4.2, §9 glossary defaults).
type Weights struct {
	Spreading            float64 // w_spread
	Importance           float64 // w_importance
	Hebbian              float64 // w_hebbian
	ContradictionPenalty float64 // P_contra
}

// DefaultWeights returns the defaults named in the glossary.
func DefaultWeights() Weights {
	return Weights{
		Spreading:            0.5,
		Importance:           0.7,
		Hebbian:              0.3,
		ContradictionPenalty: 3.0,
	}
}

// BaseLevel computes ACT-R base-level activation B from a set of access
// times and the current instant. Returns negative infinity for an empty
// access set — never retrievable by this term alone (spec §4.2).
func BaseLevel(accessTimes []time.Time, now time.Time) float64 {
	if len(accessTimes) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, t := range accessTimes {
		elapsedSeconds := now.Sub(t).Seconds()
		if elapsedSeconds < 0 {
			elapsedSeconds = 0
		}
		elapsedDays := elapsedSeconds/86400.0 + epsilon
		sum += math.Pow(elapsedDays, -decayExponent)
	}
	return math.Log(sum)
}

// Spreading computes the keyword-overlap spreading-activation term C: a
// whole-word, case-insensitive match count over the context keyword set,
// scaled by w.Spreading.
func Spreading(content string, keywords []string, w Weights) float64 {
	if len(keywords) == 0 {
		return 0
	}
	var matches float64
	lowered := strings.ToLower(content)
	for _, k := range keywords {
		if wholeWordMatch(lowered, strings.ToLower(k)) {
			matches++
		}
	}
	return w.Spreading * matches
}

func wholeWordMatch(content, word string) bool {
	if word == "" {
		return false
	}
	idx := 0
	for {
		pos := strings.Index(content[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(rune(content[start-1]))
		afterOK := end == len(content) || !isWordChar(rune(content[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(content) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// Importance computes the importance term I = w_importance * importance.
func Importance(importance float64, w Weights) float64 {
	return w.Importance * importance
}

// Inputs bundles everything needed to score one candidate (spec §4.2).
type Inputs struct {
	AccessTimes  []time.Time
	Content      string
	Keywords     []string
	Importance   float64
	Contradicted bool
	HebbianTerm  float64 // pre-summed Σ strength_ij over qualifying neighbors
	Now          time.Time
}

// Composite computes A = B + C + I − P_contra·1[contradicted] + H
// (spec §4.2).
func Composite(in Inputs, w Weights) float64 {
	b := BaseLevel(in.AccessTimes, in.Now)
	c := Spreading(in.Content, in.Keywords, w)
	imp := Importance(in.Importance, w)
	h := w.Hebbian * in.HebbianTerm

	a := b + c + imp + h
	if in.Contradicted {
		a -= w.ContradictionPenalty
	}
	return a
}
