package scenarios

import (
	"strings"
	"time"

	"github.com/engramhq/engram/internal/engine"
)

const day = 24 * time.Hour

// All is the seed scenario suite (spec §8 "End-to-end scenarios").
var All = []Scenario{
	{Name: "recency_override", Run: recencyOverride},
	{Name: "frequency_reinforcement", Run: frequencyReinforcement},
	{Name: "importance_persistence", Run: importancePersistence},
	{Name: "contradiction_suppression", Run: contradictionSuppression},
	{Name: "hebbian_emergence", Run: hebbianEmergence},
	{Name: "pin_immunity", Run: pinImmunity},
}

// RunAll runs every scenario in order against h and returns all results.
// A scenario that errors (rather than merely failing its assertion) is
// reported as a failed Result carrying the error text.
func RunAll(h *Harness) []*Result {
	results := make([]*Result, 0, len(All))
	for _, s := range All {
		r, err := s.Run(h)
		if err != nil {
			r = fail(s.Name, "error: %v", err)
		}
		results = append(results, r)
	}
	return results
}

func recencyOverride(h *Harness) (*Result, error) {
	if _, err := h.seed("User works at Acme Corp", "factual", 0.5, 30*day); err != nil {
		return nil, err
	}
	if _, err := h.seed("User works at Globex Inc", "factual", 0.5, 15*day); err != nil {
		return nil, err
	}

	results, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "where does user work?", K: 5})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return fail("recency_override", "recall returned no results"), nil
	}
	if !strings.Contains(results[0].Memory.Content, "Globex") {
		return fail("recency_override", "expected Globex (more recent) top-1, got %q", results[0].Memory.Content), nil
	}
	return pass("recency_override", "Globex ranked top-1 over the older Acme entry"), nil
}

func frequencyReinforcement(h *Harness) (*Result, error) {
	if _, err := h.seed("user ate sushi for dinner", "episodic", 0.5, 15*day); err != nil {
		return nil, err
	}
	pizzaVariants := []string{
		"craving pizza tonight", "ordered pizza again", "pizza night with friends",
		"leftover pizza for lunch", "pizza delivery arrived", "talked about favorite pizza place",
	}
	for i, content := range pizzaVariants {
		age := time.Duration(14-i) * day
		if _, err := h.seed(content, "episodic", 0.5, age); err != nil {
			return nil, err
		}
	}

	results, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "user's favorite food", K: 5})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return fail("frequency_reinforcement", "recall returned no results"), nil
	}
	if !strings.Contains(strings.ToLower(results[0].Memory.Content), "pizza") {
		return fail("frequency_reinforcement", "expected a pizza memory top-1, got %q", results[0].Memory.Content), nil
	}
	return pass("frequency_reinforcement", "repeated pizza mentions outrank the single sushi mention"), nil
}

func importancePersistence(h *Harness) (*Result, error) {
	if _, err := h.seed("severe peanut allergy, always check labels", "factual", 0.95, 29*day); err != nil {
		return nil, err
	}
	for i := 0; i < 20; i++ {
		age := time.Duration(28-i) * day
		if _, err := h.seed("had an unremarkable lunch", "episodic", 0.2, age); err != nil {
			return nil, err
		}
	}

	results, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "any food allergies?", K: 5})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return fail("importance_persistence", "recall returned no results"), nil
	}
	if !strings.Contains(results[0].Memory.Content, "peanut") {
		return fail("importance_persistence", "expected the peanut allergy memory top-1, got %q", results[0].Memory.Content), nil
	}
	return pass("importance_persistence", "high-importance allergy memory outranks 20 trivial, more recent entries"), nil
}

func contradictionSuppression(h *Harness) (*Result, error) {
	sfID, err := h.seed("I live in San Francisco", "factual", 0.5, 19*day)
	if err != nil {
		return nil, err
	}
	if _, err := h.supersede("I moved to Seattle", "factual", 0.5, 5*day, sfID); err != nil {
		return nil, err
	}

	results, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "where do I live?", K: 5})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return fail("contradiction_suppression", "recall returned no results"), nil
	}
	if !strings.Contains(results[0].Memory.Content, "Seattle") {
		return fail("contradiction_suppression", "expected Seattle top-1, got %q", results[0].Memory.Content), nil
	}

	var sfResult *engine.Result
	for i := range results {
		if results[i].Memory.ID == sfID {
			sfResult = &results[i]
			break
		}
	}
	if sfResult == nil {
		return fail("contradiction_suppression", "superseded San Francisco memory dropped out of results entirely"), nil
	}
	if !sfResult.Memory.IsContradicted() {
		return fail("contradiction_suppression", "San Francisco memory is not flagged as contradicted"), nil
	}
	return pass("contradiction_suppression", "Seattle ranked top-1; San Francisco present but flagged contradicted (confidence %.2f)", sfResult.Confidence), nil
}

func hebbianEmergence(h *Harness) (*Result, error) {
	aID, err := h.seed("coffee shop standup meeting notes", "episodic", 0.5, 5*day)
	if err != nil {
		return nil, err
	}
	bID, err := h.seed("coffee shop standup follow-up tasks", "episodic", 0.5, 5*day)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		if _, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "coffee shop standup", K: 2}); err != nil {
			return nil, err
		}
	}

	links, err := h.Eng.Store().HebbianNeighbors(aID, 0)
	if err != nil {
		return nil, err
	}
	formed := false
	for _, l := range links {
		if l.Other(aID) == bID {
			formed = true
		}
	}
	if !formed {
		return fail("hebbian_emergence", "no Hebbian link formed between co-retrieved memories after 3 co-activations"), nil
	}

	results, err := h.Eng.Recall(h.ctx, engine.RecallInput{Query: "standup meeting notes", K: 3, GraphExpand: true})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Memory.ID == bID {
			return pass("hebbian_emergence", "Hebbian link formed and the co-activated memory was returned by a graph-expanded recall"), nil
		}
	}
	return fail("hebbian_emergence", "follow-up memory not pulled in via graph expansion despite a formed Hebbian link"), nil
}

func pinImmunity(h *Harness) (*Result, error) {
	id, err := h.seed("irrelevant trivia pinned for testing", "factual", 0.1, 1*day)
	if err != nil {
		return nil, err
	}
	if err := h.Eng.Pin(id); err != nil {
		return nil, err
	}

	before, err := h.Eng.Store().Peek(id)
	if err != nil {
		return nil, err
	}

	if _, err := h.Eng.Consolidate(h.ctx, 30); err != nil {
		return nil, err
	}

	after, err := h.Eng.Store().Peek(id)
	if err != nil {
		return nil, err
	}
	if after == nil {
		return fail("pin_immunity", "pinned memory disappeared during consolidate"), nil
	}
	if after.WorkingStrength != before.WorkingStrength || after.CoreStrength != before.CoreStrength || after.Layer != before.Layer {
		return fail("pin_immunity", "pinned memory's strengths/layer changed under consolidate: before r1=%.3f r2=%.3f layer=%s, after r1=%.3f r2=%.3f layer=%s",
			before.WorkingStrength, before.CoreStrength, before.Layer, after.WorkingStrength, after.CoreStrength, after.Layer), nil
	}

	if _, err := h.Eng.Forget(engine.ForgetInput{Threshold: 1e9, UseThreshold: true}); err != nil {
		return nil, err
	}
	survived, err := h.Eng.Store().Peek(id)
	if err != nil {
		return nil, err
	}
	if survived == nil {
		return fail("pin_immunity", "pinned memory was removed by forget(threshold=huge)"), nil
	}
	return pass("pin_immunity", "pinned memory survived consolidate(30) and forget(threshold=huge) unchanged"), nil
}
