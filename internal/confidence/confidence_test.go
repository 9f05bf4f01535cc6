package confidence

import "testing"

func TestScoreClampedToUnitRange(t *testing.T) {
	p := DefaultParams()
	got := Score(1.0, 1.0, 10, 10, false, p)
	if got < 0 || got > 1 {
		t.Errorf("expected score in [0,1], got %v", got)
	}

	got = Score(0, 0, 0, 0, false, p)
	if got != 0 {
		t.Errorf("expected zero inputs to score 0, got %v", got)
	}
}

func TestScoreHalvedWhenContradicted(t *testing.T) {
	p := DefaultParams()
	clean := Score(0.8, 0.8, 1, 1, false, p)
	contra := Score(0.8, 0.8, 1, 1, true, p)
	if contra != clean/2 {
		t.Errorf("got %v want %v", contra, clean/2)
	}
}

func TestBandThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.9, "certain"},
		{0.85, "certain"},
		{0.7, "likely"},
		{0.6, "likely"},
		{0.4, "uncertain"},
		{0.3, "uncertain"},
		{0.1, "vague"},
	}
	for _, c := range cases {
		if got := Band(c.score); got != c.want {
			t.Errorf("Band(%v) = %q want %q", c.score, got, c.want)
		}
	}
}

func TestDetectPolarityPositive(t *testing.T) {
	pol, mag := DetectPolarity("Thank you, that's exactly right", DefaultDictionary())
	if pol != Positive {
		t.Errorf("got polarity %v want Positive", pol)
	}
	if mag <= 0 {
		t.Errorf("expected a positive magnitude, got %v", mag)
	}
}

func TestDetectPolarityNegative(t *testing.T) {
	pol, mag := DetectPolarity("no that's wrong", DefaultDictionary())
	if pol != Negative {
		t.Errorf("got polarity %v want Negative", pol)
	}
	if mag <= 0 {
		t.Errorf("expected a positive magnitude for negative feedback, got %v", mag)
	}
}

func TestDetectPolarityNeutral(t *testing.T) {
	pol, mag := DetectPolarity("let's talk about the weather", DefaultDictionary())
	if pol != Neutral {
		t.Errorf("got polarity %v want Neutral", pol)
	}
	if mag != 0 {
		t.Errorf("expected zero magnitude for neutral text, got %v", mag)
	}
}

func TestDetectPolarityIsCaseInsensitive(t *testing.T) {
	pol, _ := DetectPolarity("THANK YOU SO MUCH", DefaultDictionary())
	if pol != Positive {
		t.Errorf("got polarity %v want Positive", pol)
	}
}

func TestRewardDelta(t *testing.T) {
	if got := RewardDelta(Positive, 0.5, DefaultRewardMagnitude); got != DefaultRewardMagnitude*0.5 {
		t.Errorf("got %v want %v", got, DefaultRewardMagnitude*0.5)
	}
	if got := RewardDelta(Negative, 0.5, DefaultRewardMagnitude); got != -DefaultRewardMagnitude*0.5 {
		t.Errorf("got %v want %v", got, -DefaultRewardMagnitude*0.5)
	}
	if got := RewardDelta(Neutral, 0.5, DefaultRewardMagnitude); got != 0 {
		t.Errorf("expected neutral feedback to be a no-op, got %v", got)
	}
}
