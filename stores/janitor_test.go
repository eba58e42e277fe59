package stores

import (
	"testing"
	"time"
)

func TestJanitorRunOncePrunes(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTurn("conv-1", "abandoned", "", 0); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}
	if err := store.SaveTurn("conv-1", "answered", "ok", 2); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	j := NewJanitor(store, -time.Hour, nil)
	j.runOnce()

	turns, err := store.RecentTurns("conv-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].Query != "answered" {
		t.Errorf("expected only the answered turn to survive, got %+v", turns)
	}
}

func TestJanitorScheduleValidation(t *testing.T) {
	j := NewJanitor(newTestStore(t), time.Hour, nil)

	if err := j.Start("not a schedule"); err == nil {
		t.Error("expected an invalid schedule to be rejected")
	}

	if err := j.Start("0 3 * * *"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer j.Stop()

	if err := j.Start("0 3 * * *"); err == nil {
		t.Error("expected a second Start to be rejected")
	}
}

func TestJanitorStopBeforeStart(t *testing.T) {
	j := NewJanitor(newTestStore(t), time.Hour, nil)
	j.Stop()
}
