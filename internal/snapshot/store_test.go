package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atlvs/cartflow/internal/cart"
)

func testItems() []cart.Item {
	return []cart.Item{
		{ID: "exp-1", Name: "Sunset Cruise", Price: 49.5, Currency: "USD", Quantity: 2},
		{ID: "tkt-9", Name: "Gala Ticket", Price: 120, Currency: "USD", Quantity: 1},
	}
}

func TestPut_Get_RoundTrip(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "snapshots-table", 48*time.Hour)
	ctx := context.Background()

	rec, err := s.Put(ctx, cart.DefaultSlot, testItems(), "")
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if rec.Revision == "" {
		t.Fatalf("expected a revision to be assigned")
	}
	if rec.ExpiresAt == 0 {
		t.Fatalf("expected TTL to be set")
	}

	got, err := s.Get(ctx, cart.DefaultSlot)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected record, got nil")
	}
	if len(got.Items) != 2 || got.Items[0].ID != "exp-1" || got.Items[1].ID != "tkt-9" {
		t.Fatalf("items did not round-trip in order: %+v", got.Items)
	}
	if got.Items[0].Quantity != 2 || got.Items[0].Price != 49.5 {
		t.Fatalf("item fields did not round-trip: %+v", got.Items[0])
	}
	if got.Revision != rec.Revision {
		t.Fatalf("revision mismatch: %s != %s", got.Revision, rec.Revision)
	}
}

func TestGet_MissingSlot(t *testing.T) {
	s := NewStore(newSimpleMock(), "snapshots-table", 0)

	rec, err := s.Get(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record for missing slot, got %+v", rec)
	}
}

func TestPut_RevisionConflict(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "snapshots-table", 0)
	ctx := context.Background()

	first, err := s.Put(ctx, "slot-a", testItems(), "")
	if err != nil {
		t.Fatalf("initial Put error: %v", err)
	}

	// conditional write with the current revision succeeds
	second, err := s.Put(ctx, "slot-a", testItems()[:1], first.Revision)
	if err != nil {
		t.Fatalf("conditional Put error: %v", err)
	}

	got, err := s.Get(ctx, "slot-a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Revision != second.Revision || len(got.Items) != 1 {
		t.Fatalf("conditional write did not apply: %+v", got)
	}

	// replaying the stale revision must now conflict
	_, err = s.Put(ctx, "slot-a", testItems(), first.Revision)
	if !errors.Is(err, ErrRevisionConflict) {
		t.Fatalf("expected ErrRevisionConflict, got %v", err)
	}

	// unconditional write still wins
	if _, err := s.Put(ctx, "slot-a", testItems(), ""); err != nil {
		t.Fatalf("unconditional Put error: %v", err)
	}
}

func TestLoadSave_InterfaceShape(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "snapshots-table", 0)
	ctx := context.Background()

	// a Store must satisfy the orchestrator's dependency
	var _ cart.SnapshotStore = s

	items, rev, err := s.Load(ctx, "slot-b")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if items != nil || rev != "" {
		t.Fatalf("expected empty load for missing slot, got %v / %q", items, rev)
	}

	newRev, err := s.Save(ctx, "slot-b", testItems(), "")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if newRev == "" {
		t.Fatalf("expected revision from Save")
	}

	items, rev, err = s.Load(ctx, "slot-b")
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if len(items) != 2 || rev != newRev {
		t.Fatalf("Load after Save mismatch: %d items, rev %q", len(items), rev)
	}
}

func TestDelete(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "snapshots-table", 0)
	ctx := context.Background()

	if _, err := s.Put(ctx, "slot-c", testItems(), ""); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Delete(ctx, "slot-c"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	rec, err := s.Get(ctx, "slot-c")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected slot gone after delete")
	}
}

func TestPut_PropagatesBackendError(t *testing.T) {
	mock := newSimpleMock()
	mock.failPut = errors.New("throttled")
	s := NewStore(mock, "snapshots-table", 0)

	_, err := s.Put(context.Background(), "slot-d", testItems(), "")
	if err == nil || errors.Is(err, ErrRevisionConflict) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
