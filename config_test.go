package parley

import (
	"context"
	"testing"

	"github.com/parleylabs/parley/stores"
)

func newTestPlatform(t *testing.T) *Platform {
	t.Helper()
	store, err := stores.NewSQLiteStoreSimple(":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPlatform().WithStore(store)
}

func TestPlatformValidatorUsesStoreDatasets(t *testing.T) {
	p := newTestPlatform(t)
	v := p.Validator()

	if v.Providers == nil {
		t.Fatal("expected the validator to carry the platform registry")
	}
	ds, err := v.Datasets.GetDataset("missing")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if ds != nil {
		t.Errorf("expected nil for a missing dataset, got %+v", ds)
	}

	if err := p.Store.SaveDataset("ds-1", "tenant-1", "docs"); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	ds, err = v.Datasets.GetDataset("ds-1")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if ds == nil || ds.TenantID != "tenant-1" {
		t.Errorf("expected the store-backed lookup to resolve ds-1, got %+v", ds)
	}
}

func TestPlatformMemoryReadsStore(t *testing.T) {
	p := newTestPlatform(t)

	if err := p.Store.SaveTurn("conv-1", "hello", "hi", 2); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	msgs, err := p.Memory("conv-1").Buffer(context.Background())
	if err != nil {
		t.Fatalf("Buffer failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[1].Content != "hi" {
		t.Errorf("unexpected buffer: %+v", msgs)
	}
}
