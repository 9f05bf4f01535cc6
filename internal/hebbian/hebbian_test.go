package hebbian

import "testing"

func TestCanonicalPairOrdersLexically(t *testing.T) {
	a, b := CanonicalPair("b", "a")
	if a != "a" || b != "b" {
		t.Errorf("got (%q,%q) want (%q,%q)", a, b, "a", "b")
	}

	a, b = CanonicalPair("a", "b")
	if a != "a" || b != "b" {
		t.Errorf("got (%q,%q) want (%q,%q)", a, b, "a", "b")
	}
}

func TestNextCoActivationBelowThreshold(t *testing.T) {
	p := DefaultParams()
	counter, exists, strength := NextCoActivation(0, false, 0, p)
	if counter != 1 {
		t.Errorf("got counter %d want 1", counter)
	}
	if exists {
		t.Error("expected no link below the formation threshold")
	}
	if strength != 0 {
		t.Errorf("got strength %v want 0", strength)
	}
}

func TestNextCoActivationFormsLinkAtThreshold(t *testing.T) {
	p := DefaultParams()
	counter, exists, strength := NextCoActivation(p.FormThreshold-1, false, 0, p)
	if counter != p.FormThreshold {
		t.Errorf("got counter %d want %d", counter, p.FormThreshold)
	}
	if !exists {
		t.Error("expected a link to form once the threshold is reached")
	}
	if strength != 1.0 {
		t.Errorf("got initial strength %v want 1.0", strength)
	}
}

func TestNextCoActivationStrengthensExistingLink(t *testing.T) {
	p := DefaultParams()
	_, exists, strength := NextCoActivation(p.FormThreshold, true, 1.0, p)
	if !exists {
		t.Error("expected the link to continue existing")
	}
	want := 1.0 * (1 + p.Eta)
	if strength != want {
		t.Errorf("got strength %v want %v", strength, want)
	}
}

func TestNextCoActivationCapsAtMaxStrength(t *testing.T) {
	p := DefaultParams()
	_, _, strength := NextCoActivation(p.FormThreshold, true, p.MaxStrength, p)
	if strength != p.MaxStrength {
		t.Errorf("got strength %v want capped %v", strength, p.MaxStrength)
	}
}

func TestDecayReducesStrength(t *testing.T) {
	p := DefaultParams()
	newStrength, _ := Decay(1.0, p)
	if newStrength != 1.0*p.Decay {
		t.Errorf("got %v want %v", newStrength, 1.0*p.Decay)
	}
}

func TestDecayReportsRemovalBelowPruneThreshold(t *testing.T) {
	p := DefaultParams()
	_, shouldRemove := Decay(p.PruneBelow, p)
	if !shouldRemove {
		t.Error("expected removal once decayed strength falls below the prune threshold")
	}

	_, shouldRemove = Decay(p.MaxStrength, p)
	if shouldRemove {
		t.Error("did not expect removal for a strong link after one decay step")
	}
}

func TestCoActivatedPairsEnumeratesUnorderedPairs(t *testing.T) {
	pairs := CoActivatedPairs([]string{"a", "b", "c"})
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs want 3", len(pairs))
	}

	want := map[[2]string]bool{
		{"a", "b"}: true,
		{"a", "c"}: true,
		{"b", "c"}: true,
	}
	for _, p := range pairs {
		if !want[p] {
			t.Errorf("unexpected pair %v", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("missing pairs: %v", want)
	}
}

func TestCoActivatedPairsEmptyAndSingle(t *testing.T) {
	if pairs := CoActivatedPairs(nil); len(pairs) != 0 {
		t.Errorf("expected no pairs for empty input, got %v", pairs)
	}
	if pairs := CoActivatedPairs([]string{"a"}); len(pairs) != 0 {
		t.Errorf("expected no pairs for single-element input, got %v", pairs)
	}
}
