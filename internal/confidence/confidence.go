// Package confidence implements the retrieval confidence score and label
// bands, plus reward-feedback polarity detection and application (spec
// §4.7). Grounded on the cue-phrase classifier pattern and clamp-then-band
// scoring used across the example pack's scoring helpers.
package confidence

import (
	"math"
	"strings"
)

// Params bundles the confidence-scoring weights (spec §9 glossary
// defaults).
type Params struct {
	WeightRetrievability float64
	WeightMatch          float64
	WeightStrength       float64
}

// DefaultParams returns the defaults named in spec §4.7: 0.4/0.4/0.2.
func DefaultParams() Params {
	return Params{WeightRetrievability: 0.4, WeightMatch: 0.4, WeightStrength: 0.2}
}

// Score computes ĉ = clamp01(0.4·R + 0.4·s_match + 0.2·tanh(r1+r2)), halved
// if the entry is contradicted (spec §4.7).
func Score(retrievability, matchScore, r1, r2 float64, contradicted bool, p Params) float64 {
	c := p.WeightRetrievability*retrievability + p.WeightMatch*matchScore + p.WeightStrength*math.Tanh(r1+r2)
	c = clamp01(c)
	if contradicted {
		c /= 2
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Band returns the label for a confidence score (spec §4.7):
// certain >= 0.85, likely >= 0.6, uncertain >= 0.3, else vague.
func Band(c float64) string {
	switch {
	case c >= 0.85:
		return "certain"
	case c >= 0.6:
		return "likely"
	case c >= 0.3:
		return "uncertain"
	default:
		return "vague"
	}
}

// Polarity is the direction of a detected feedback signal.
type Polarity string

const (
	Positive Polarity = "pos"
	Negative Polarity = "neg"
	Neutral  Polarity = "neutral"
)

// CuePhrase pairs a lowercase phrase with the magnitude it contributes when
// matched.
type CuePhrase struct {
	Phrase    string
	Magnitude float64
}

// DefaultPositiveCues and DefaultNegativeCues form the built-in dictionary;
// callers may supply their own via configuration (spec §4.7).
var DefaultPositiveCues = []CuePhrase{
	{"thank you", 0.6}, {"thanks", 0.5}, {"that's right", 0.8}, {"exactly", 0.8},
	{"correct", 0.7}, {"perfect", 0.9}, {"yes that", 0.6}, {"good job", 0.7},
	{"that helped", 0.7}, {"that's it", 0.7},
}

var DefaultNegativeCues = []CuePhrase{
	{"wrong", 0.7}, {"no that", 0.6}, {"incorrect", 0.8}, {"not right", 0.7},
	{"that's not", 0.7}, {"mistaken", 0.6}, {"not what i", 0.6}, {"forget that", 0.9},
	{"never mind", 0.4}, {"that's false", 0.9},
}

// Dictionary is an injectable (positive, negative) cue-phrase set.
type Dictionary struct {
	Positive []CuePhrase
	Negative []CuePhrase
}

// DefaultDictionary returns the built-in positive/negative cue sets.
func DefaultDictionary() Dictionary {
	return Dictionary{Positive: DefaultPositiveCues, Negative: DefaultNegativeCues}
}

// DetectPolarity classifies feedback text against a cue-phrase dictionary,
// returning the strongest matching polarity and its magnitude. No match
// yields (Neutral, 0) (spec §4.7).
func DetectPolarity(text string, dict Dictionary) (Polarity, float64) {
	lowered := strings.ToLower(text)

	posMag := bestMatch(lowered, dict.Positive)
	negMag := bestMatch(lowered, dict.Negative)

	switch {
	case posMag == 0 && negMag == 0:
		return Neutral, 0
	case posMag >= negMag:
		return Positive, posMag
	default:
		return Negative, negMag
	}
}

func bestMatch(lowered string, cues []CuePhrase) float64 {
	var best float64
	for _, cue := range cues {
		if strings.Contains(lowered, cue.Phrase) && cue.Magnitude > best {
			best = cue.Magnitude
		}
	}
	return best
}

// RewardDelta computes the ± adjustment applied to importance and r1 for
// an accessed entry under reward feedback (spec §4.7: "adjust importance
// and r1 by ±reward_magnitude·magnitude; neutral is a no-op").
func RewardDelta(polarity Polarity, magnitude, rewardMagnitude float64) float64 {
	switch polarity {
	case Positive:
		return rewardMagnitude * magnitude
	case Negative:
		return -rewardMagnitude * magnitude
	default:
		return 0
	}
}

// DefaultRewardMagnitude and DefaultRewardN are the glossary defaults for
// reward application (spec §4.7: last N=3 accessed entries).
const (
	DefaultRewardMagnitude = 0.3
	DefaultRewardN         = 3
)
