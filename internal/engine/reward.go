package engine

import (
	"github.com/engramhq/engram/internal/confidence"
)

// Reward classifies feedback text and applies the resulting polarity to
// the last RewardN accessed entries, adjusting importance and working
// strength by ±reward_magnitude·magnitude (spec §4.7). Neutral feedback is
// a no-op and still counts toward the returned affected count of zero.
func (e *Engine) Reward(feedback string) (int, error) {
	polarity, magnitude := confidence.DetectPolarity(feedback, confidence.DefaultDictionary())
	if polarity == confidence.Neutral {
		return 0, nil
	}

	ids, err := e.store.RecentlyAccessed(e.rewardN)
	if err != nil {
		return 0, err
	}

	delta := confidence.RewardDelta(polarity, magnitude, e.rewardMagnitude)

	affected := 0
	for _, id := range ids {
		m, err := e.store.Peek(id)
		if err != nil {
			return affected, err
		}
		if m == nil {
			continue
		}
		m.Importance = clamp01(m.Importance + delta)
		m.WorkingStrength += delta
		if m.WorkingStrength < 0 {
			m.WorkingStrength = 0
		}
		if err := e.store.Update(m); err != nil {
			return affected, err
		}
		affected++
	}
	return affected, nil
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
