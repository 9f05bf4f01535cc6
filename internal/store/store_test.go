package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := st.InitSchema(); err != nil {
		st.Close()
		t.Fatalf("init schema failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "hello world", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if m.ID == "" {
		t.Error("expected an assigned id")
	}
	if m.CreatedAt.IsZero() {
		t.Error("expected an assigned created_at")
	}
	if m.Layer != "working" {
		t.Errorf("got layer %q want working default", m.Layer)
	}
}

func TestInsertRejectsInvalidKind(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "x", Kind: "not-a-real-kind"}
	if err := st.Insert(m); err == nil {
		t.Error("expected an error for an invalid kind")
	}
}

func TestInsertHonorsExplicitCreatedAt(t *testing.T) {
	st := openTestStore(t)
	past := time.Now().Add(-72 * time.Hour).Truncate(time.Second)
	m := &Memory{Content: "backdated", Kind: "factual", CreatedAt: past}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := st.Peek(m.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if !got.CreatedAt.Equal(past) {
		t.Errorf("got created_at %v want %v", got.CreatedAt, past)
	}
}

func TestGetAppendsAccess(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "accessed repeatedly", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	before, err := st.Get(m.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	accessesBefore := len(before.AccessTimes)

	after, err := st.Get(m.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(after.AccessTimes) != accessesBefore+1 {
		t.Errorf("got %d access times want %d", len(after.AccessTimes), accessesBefore+1)
	}
}

func TestPeekDoesNotAppendAccess(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "peeked not accessed", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	first, err := st.Peek(m.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	second, err := st.Peek(m.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if len(first.AccessTimes) != len(second.AccessTimes) {
		t.Error("expected Peek to leave access history unchanged")
	}
}

func TestPeekMissingReturnsNil(t *testing.T) {
	st := openTestStore(t)
	m, err := st.Peek("does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Error("expected nil for a missing id")
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "original", Kind: "factual", Importance: 0.2}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	m.Importance = 0.9
	m.Pinned = true
	if err := st.Update(m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := st.Peek(m.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if got.Importance != 0.9 || !got.Pinned {
		t.Errorf("got importance=%v pinned=%v, want 0.9/true", got.Importance, got.Pinned)
	}
}

func TestDeleteRemovesMemory(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "to be deleted", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Delete(m.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err := st.Peek(m.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if got != nil {
		t.Error("expected the memory to be gone")
	}
}

func TestListMemoriesFiltersByKind(t *testing.T) {
	st := openTestStore(t)
	if err := st.Insert(&Memory{Content: "a", Kind: "factual"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(&Memory{Content: "b", Kind: "episodic"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := st.ListMemories(&MemoryFilters{Kind: "factual"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d memories want 1", len(got))
	}
	if got[0].Kind != "factual" {
		t.Errorf("got kind %q want factual", got[0].Kind)
	}
}

func TestSearchFTSFindsByContent(t *testing.T) {
	st := openTestStore(t)
	if err := st.Insert(&Memory{Content: "the quick brown fox", Kind: "factual"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(&Memory{Content: "an unrelated entry", Kind: "factual"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	results, err := st.SearchFTS("fox", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results want 1", len(results))
	}
}

func TestGraphLinkRoundTrip(t *testing.T) {
	st := openTestStore(t)
	m := &Memory{Content: "tagged entry", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.AddGraphLink(m.ID, "alice", "entity"); err != nil {
		t.Fatalf("add graph link failed: %v", err)
	}

	links, err := st.GraphLinksForMemory(m.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(links) != 1 || links[0].EntityLabel != "alice" {
		t.Errorf("got %+v want one link to alice", links)
	}
}

func TestMemoriesSharingEntities(t *testing.T) {
	st := openTestStore(t)
	a := &Memory{Content: "a", Kind: "factual"}
	b := &Memory{Content: "b", Kind: "factual"}
	if err := st.Insert(a); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(b); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.AddGraphLink(a.ID, "alice", "entity"); err != nil {
		t.Fatalf("add graph link failed: %v", err)
	}
	if err := st.AddGraphLink(b.ID, "alice", "entity"); err != nil {
		t.Fatalf("add graph link failed: %v", err)
	}

	shared, err := st.MemoriesSharingEntities(a.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(shared) != 1 || shared[0] != b.ID {
		t.Errorf("got %v want [%s]", shared, b.ID)
	}
}

func TestHebbianLinkUpsertAndDelete(t *testing.T) {
	st := openTestStore(t)
	a := &Memory{Content: "a", Kind: "factual"}
	b := &Memory{Content: "b", Kind: "factual"}
	if err := st.Insert(a); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(b); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := st.UpsertHebbianLink(a.ID, b.ID, 1.0, 3); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	link, err := st.GetHebbianLink(a.ID, b.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if link == nil || link.Strength != 1.0 {
		t.Fatalf("got %+v want strength 1.0", link)
	}

	neighbors, err := st.HebbianNeighbors(a.ID, 0.5)
	if err != nil {
		t.Fatalf("neighbors failed: %v", err)
	}
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors want 1", len(neighbors))
	}
	if neighbors[0].Other(a.ID) != b.ID {
		t.Errorf("got other endpoint %q want %q", neighbors[0].Other(a.ID), b.ID)
	}

	if err := st.DeleteHebbianLink(a.ID, b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	link, err = st.GetHebbianLink(a.ID, b.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if link != nil {
		t.Error("expected the link to be gone after delete")
	}
}

func TestMarkContradictionLinksBothSides(t *testing.T) {
	st := openTestStore(t)
	oldM := &Memory{Content: "old claim", Kind: "factual"}
	newM := &Memory{Content: "new claim", Kind: "factual"}
	if err := st.Insert(oldM); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(newM); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := st.MarkContradiction(newM.ID, oldM.ID); err != nil {
		t.Fatalf("mark contradiction failed: %v", err)
	}

	gotOld, err := st.Peek(oldM.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if !gotOld.IsContradicted() {
		t.Error("expected the old memory to be marked contradicted")
	}

	gotNew, err := st.Peek(newM.ID)
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if gotNew.Contradicts != oldM.ID {
		t.Errorf("got contradicts %q want %q", gotNew.Contradicts, oldM.ID)
	}
}

func TestGetStatsCounts(t *testing.T) {
	st := openTestStore(t)
	if err := st.Insert(&Memory{Content: "a", Kind: "factual"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(&Memory{Content: "b", Kind: "episodic"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	stats, err := st.GetStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.MemoryCount != 2 {
		t.Errorf("got %d memories want 2", stats.MemoryCount)
	}
	if stats.CountByKind["factual"] != 1 {
		t.Errorf("got %d factual want 1", stats.CountByKind["factual"])
	}
}

func TestRecentlyAccessedOrdersByRecency(t *testing.T) {
	st := openTestStore(t)
	a := &Memory{Content: "a", Kind: "factual"}
	b := &Memory{Content: "b", Kind: "factual"}
	if err := st.Insert(a); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.Insert(b); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := st.Get(b.ID); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	ids, err := st.RecentlyAccessed(1)
	if err != nil {
		t.Fatalf("recently accessed failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("got %v want [%s]", ids, b.ID)
	}
}
