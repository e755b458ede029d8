package cart

import (
	"context"
	"log"
)

// State is the load-lifecycle state of an Orchestrator.
type State string

const (
	StateLoading        State = "LOADING"
	StateLoaded         State = "LOADED"          // remote source succeeded
	StateFallbackLoaded State = "FALLBACK_LOADED" // remote failed/empty, snapshot had items
	StateEmpty          State = "EMPTY"           // at least one source answered, cart is genuinely empty
	StateUnavailable    State = "UNAVAILABLE"     // both sources errored; not the same as empty
)

// Source fetches the raw upstream cart contents.
// Consumers define this interface; internal/remote provides the HTTP one.
type Source interface {
	FetchItems(ctx context.Context) ([]RawItem, error)
}

// SnapshotStore persists and restores the canonical snapshot for a slot.
// Load returns (nil, "", nil) when the slot has never been written.
// Save returns the new revision; a non-empty prevRevision guards against
// concurrent writers clobbering each other, an empty one overwrites
// unconditionally (fresh load superseding whatever was there).
type SnapshotStore interface {
	Load(ctx context.Context, slot string) ([]Item, string, error)
	Save(ctx context.Context, slot string, items []Item, prevRevision string) (string, error)
}

// Orchestrator owns one cart snapshot: it loads items remote-first with a
// durable-snapshot fallback, applies user mutations, and persists after
// every change. It is single-owner state; callers serialize access.
type Orchestrator struct {
	source Source
	store  SnapshotStore
	calc   *Calculator
	slot   string

	state    State
	items    []Item
	revision string
}

// NewOrchestrator wires an orchestrator for one cart slot. An empty slot
// name selects DefaultSlot.
func NewOrchestrator(source Source, store SnapshotStore, calc *Calculator, slot string) *Orchestrator {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Orchestrator{
		source: source,
		store:  store,
		calc:   calc,
		slot:   slot,
		state:  StateLoading,
	}
}

// Load resolves the snapshot: remote source first, durable snapshot on
// failure or empty result. A canceled context discards whatever the remote
// fetch returned instead of applying a stale response. Load always leaves
// the orchestrator in a terminal state; the returned error is advisory
// (Unavailable is a ready state for rendering, just an empty one).
func (o *Orchestrator) Load(ctx context.Context) error {
	o.state = StateLoading

	raw, remoteErr := o.source.FetchItems(ctx)
	if err := ctx.Err(); err != nil {
		// stale-response guard: the caller went away mid-fetch
		return err
	}
	if remoteErr == nil {
		if items := Normalize(raw); len(items) > 0 {
			o.apply(StateLoaded, items, "")
			// keep the fallback snapshot current; best effort
			if rev, err := o.store.Save(ctx, o.slot, o.items, o.revision); err != nil {
				log.Printf("cart: snapshot save after remote load failed: %v", err)
			} else {
				o.revision = rev
			}
			return nil
		}
	} else {
		log.Printf("cart: remote load failed, trying snapshot: %v", remoteErr)
	}

	items, rev, snapErr := o.store.Load(ctx, o.slot)
	if snapErr != nil {
		if remoteErr != nil {
			o.apply(StateUnavailable, nil, "")
			return snapErr
		}
		// remote answered (empty); a broken fallback read changes nothing
		o.apply(StateEmpty, nil, "")
		return nil
	}
	if len(items) > 0 {
		o.apply(StateFallbackLoaded, items, rev)
		return nil
	}
	o.apply(StateEmpty, nil, rev)
	return nil
}

func (o *Orchestrator) apply(s State, items []Item, rev string) {
	o.state = s
	o.items = items
	o.revision = rev
}

// UpdateQuantity sets the quantity of the identified item and persists the
// snapshot. Quantities below 1 are rejected and the item keeps its prior
// quantity; an unknown id is a no-op. Returns whether anything changed.
func (o *Orchestrator) UpdateQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	if !o.ready() || quantity < 1 {
		return false, nil
	}
	for i := range o.items {
		if o.items[i].ID != id {
			continue
		}
		if o.items[i].Quantity == quantity {
			return false, nil
		}
		o.items[i].Quantity = quantity
		return true, o.persist(ctx)
	}
	return false, nil
}

// RemoveItem deletes the identified item, preserving the order of the
// survivors, and persists the snapshot. Unknown ids are a no-op.
func (o *Orchestrator) RemoveItem(ctx context.Context, id string) (bool, error) {
	if !o.ready() {
		return false, nil
	}
	for i := range o.items {
		if o.items[i].ID != id {
			continue
		}
		o.items = append(o.items[:i:i], o.items[i+1:]...)
		return true, o.persist(ctx)
	}
	return false, nil
}

func (o *Orchestrator) persist(ctx context.Context) error {
	rev, err := o.store.Save(ctx, o.slot, o.items, o.revision)
	if err != nil {
		return err
	}
	o.revision = rev
	return nil
}

func (o *Orchestrator) ready() bool {
	switch o.state {
	case StateLoaded, StateFallbackLoaded, StateEmpty:
		return true
	default:
		return false
	}
}

// Items returns a copy of the current snapshot.
func (o *Orchestrator) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Totals recomputes the display totals from the current snapshot.
func (o *Orchestrator) Totals() Totals {
	return o.calc.Totals(o.items)
}

// State reports the terminal load state (or StateLoading before Load).
func (o *Orchestrator) State() State { return o.state }

// Slot reports the snapshot slot this orchestrator owns.
func (o *Orchestrator) Slot() string { return o.slot }

// Revision reports the last persisted snapshot revision, if any.
func (o *Orchestrator) Revision() string { return o.revision }
