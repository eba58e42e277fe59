package stores

import (
	"fmt"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStoreSimple(":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveTurnCreatesConversation(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "hello", "hi there", 5); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}
	if err := store.SaveTurn("conv-1", "how are you", "fine", 3); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	convs, err := store.ListConversationsForApp("")
	if err != nil {
		t.Fatalf("ListConversationsForApp failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 auto-created conversation, got %d", len(convs))
	}
	if convs[0].ConversationID != "conv-1" {
		t.Errorf("unexpected conversation ID: %s", convs[0].ConversationID)
	}
	if convs[0].TurnCount != 2 {
		t.Errorf("expected turn count 2, got %d", convs[0].TurnCount)
	}
}

func TestRecentTurnsNewestFirstLimited(t *testing.T) {
	store := newTestStore(t)

	for i := 1; i <= 15; i++ {
		if err := store.SaveTurn("conv-1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), i); err != nil {
			t.Fatalf("SaveTurn failed: %v", err)
		}
	}

	turns, err := store.RecentTurns("conv-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(turns))
	}
	if turns[0].Query != "q15" {
		t.Errorf("expected newest turn first, got %s", turns[0].Query)
	}
	if turns[9].Query != "q6" {
		t.Errorf("expected q6 as the oldest returned turn, got %s", turns[9].Query)
	}
}

func TestRecentTurnsExcludesAbandoned(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "answered", "yes", 2); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}
	if err := store.SaveTurn("conv-1", "abandoned", "", 0); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	turns, err := store.RecentTurns("conv-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected only the answered turn, got %d turns", len(turns))
	}
	if turns[0].Query != "answered" {
		t.Errorf("unexpected turn: %+v", turns[0])
	}
}

func TestRecentTurnsScopedToConversation(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "q1", "a1", 1); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}
	if err := store.SaveTurn("conv-2", "q2", "a2", 1); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	turns, err := store.RecentTurns("conv-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].Query != "q1" {
		t.Errorf("expected only conv-1 turns, got %+v", turns)
	}
}

func TestPruneAbandonedTurns(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "abandoned", "", 0); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}
	if err := store.SaveTurn("conv-1", "answered", "ok", 2); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	// A negative age puts the cutoff in the future, so age never protects a
	// row in this test.
	pruned, err := store.PruneAbandonedTurns(-time.Hour)
	if err != nil {
		t.Fatalf("PruneAbandonedTurns failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned turn, got %d", pruned)
	}

	turns, err := store.RecentTurns("conv-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].Query != "answered" {
		t.Errorf("expected the answered turn to survive, got %+v", turns)
	}
}

func TestPruneRespectsAge(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "fresh abandoned", "", 0); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	pruned, err := store.PruneAbandonedTurns(time.Hour)
	if err != nil {
		t.Fatalf("PruneAbandonedTurns failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected a fresh turn to survive pruning, pruned %d", pruned)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveDataset("ds-1", "tenant-1", "support articles"); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	ds, err := store.GetDataset("ds-1")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if ds == nil {
		t.Fatal("expected dataset, got nil")
	}
	if ds.TenantID != "tenant-1" || ds.Name != "support articles" {
		t.Errorf("unexpected dataset: %+v", ds)
	}
}

func TestGetDatasetMissing(t *testing.T) {
	store := newTestStore(t)

	ds, err := store.GetDataset("nope")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if ds != nil {
		t.Errorf("expected nil for a missing dataset, got %+v", ds)
	}
}

func TestAppConfigVersions(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveAppConfig("app-1", "tenant-1", `{"v":1}`); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if err := store.SaveAppConfig("app-1", "tenant-1", `{"v":2}`); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	rec, err := store.LatestAppConfig("app-1")
	if err != nil {
		t.Fatalf("LatestAppConfig failed: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a config record, got nil")
	}
	if rec.ConfigJSON != `{"v":2}` {
		t.Errorf("expected the latest version, got %s", rec.ConfigJSON)
	}
}

func TestLatestAppConfigMissing(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.LatestAppConfig("unknown-app")
	if err != nil {
		t.Fatalf("LatestAppConfig failed: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for an unconfigured app, got %+v", rec)
	}
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
