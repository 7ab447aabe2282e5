package record

import (
	"fmt"
	"slices"

	"github.com/roach88/mvsync/internal/ir"
)

// slot is one arena cell. gen is the generation handed out with the cell's
// current (or next) occupant; it is bumped when the occupant is freed.
type slot struct {
	gen   uint32
	entry Entry
	live  bool // committed by Flush and visible to lookups
}

// Store is the arena of model and view records.
//
// Structural edits are staged: Spawn and Despawn only take effect at the
// next Flush, so a phase iterating the store never observes a half-created
// or half-destroyed record. Freed slot indices are returned to the free list
// only at EndTick, and always with a bumped generation, so a stale handle
// can never resolve to a newer record.
//
// Thread-safety: none. The engine drives a Store from its single tick
// goroutine.
type Store struct {
	slots    []slot
	free     []uint32 // reusable now
	released []uint32 // freed this tick, reusable after EndTick

	pendingSpawn   []ir.Handle
	pendingDespawn []ir.Handle
	despawnSet     map[ir.Handle]struct{}

	// One-tick pulses, cleared by EndTick.
	created    []ir.Handle
	dirty      map[ir.Handle]ir.FieldSet
	dirtyOrder []ir.Handle
	removed    []ir.Handle

	// Reverse index: model handle -> dependent views in creation order.
	// Entries for a destroyed model survive until its last view is gone.
	byModel map[ir.Handle][]ir.Handle
}

// FlushResult reports what a Flush committed.
type FlushResult struct {
	Spawned   []ir.Handle
	Destroyed []ir.Handle
}

// New creates an empty store.
func New() *Store {
	return &Store{
		despawnSet: make(map[ir.Handle]struct{}),
		dirty:      make(map[ir.Handle]ir.FieldSet),
		byModel:    make(map[ir.Handle][]ir.Handle),
	}
}

// Spawn stages a new record and returns its handle. The record is invisible
// to lookups until the next Flush. Allocation is O(1) amortized.
func (s *Store) Spawn(e Entry) ir.Handle {
	if e == nil {
		panic(&FaultError{Op: "Spawn", Err: fmt.Errorf("nil entry")})
	}

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{gen: 1})
	}

	sl := &s.slots[idx]
	sl.entry = e
	sl.live = false
	h := ir.Handle{Index: idx, Gen: sl.gen}
	s.pendingSpawn = append(s.pendingSpawn, h)
	return h
}

// Despawn stages the destruction of h. The record stays readable until the
// next Flush. Despawning the same handle twice in one batch is a no-op.
func (s *Store) Despawn(h ir.Handle) error {
	if _, ok := s.lookup(h, true); !ok {
		return stale(h, "record")
	}
	if _, dup := s.despawnSet[h]; dup {
		return nil
	}
	s.despawnSet[h] = struct{}{}
	s.pendingDespawn = append(s.pendingDespawn, h)
	return nil
}

// Pending reports whether h is staged for destruction.
func (s *Store) Pending(h ir.Handle) bool {
	_, ok := s.despawnSet[h]
	return ok
}

// Flush commits staged spawns, then staged despawns.
func (s *Store) Flush() FlushResult {
	var res FlushResult

	spawns := s.pendingSpawn
	s.pendingSpawn = nil
	for _, h := range spawns {
		sl, ok := s.lookup(h, true)
		if !ok {
			continue // slot already released
		}
		if _, dying := s.despawnSet[h]; dying {
			continue // never goes live; released by the despawn loop below
		}
		sl.live = true
		res.Spawned = append(res.Spawned, h)

		switch e := sl.entry.(type) {
		case *Model:
			s.created = append(s.created, h)
		case *View:
			s.byModel[e.model] = append(s.byModel[e.model], h)
		}
	}

	despawns := s.pendingDespawn
	s.pendingDespawn = nil
	clear(s.despawnSet)
	for _, h := range despawns {
		sl, ok := s.lookup(h, true)
		if !ok {
			continue
		}
		switch e := sl.entry.(type) {
		case *Model:
			if sl.live {
				s.removed = append(s.removed, h)
			}
			delete(s.dirty, h)
		case *View:
			s.unindexView(h, e)
		}
		s.release(h.Index)
		res.Destroyed = append(res.Destroyed, h)
	}

	return res
}

// unindexView drops a dying view from the reverse index and its parent.
func (s *Store) unindexView(h ir.Handle, v *View) {
	views := s.byModel[v.model]
	if i := slices.Index(views, h); i >= 0 {
		views = slices.Delete(views, i, i+1)
	}
	if len(views) == 0 {
		delete(s.byModel, v.model)
	} else {
		s.byModel[v.model] = views
	}

	if !v.parent.IsSlot() && !v.parent.View.IsNil() {
		if parent, ok := s.lookup(v.parent.View, true); ok {
			if pv, isView := parent.entry.(*View); isView {
				pv.removeChild(h)
			}
		}
	}
}

func (s *Store) release(idx uint32) {
	sl := &s.slots[idx]
	sl.entry = nil
	sl.live = false
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	s.released = append(s.released, idx)
}

// EndTick clears every one-tick pulse and makes slots freed this tick
// available for reuse.
func (s *Store) EndTick() {
	s.created = nil
	clear(s.dirty)
	s.dirtyOrder = nil
	s.removed = nil
	s.free = append(s.free, s.released...)
	s.released = nil
}

// lookup resolves h. When staged is true, records spawned but not yet
// flushed are visible too.
func (s *Store) lookup(h ir.Handle, staged bool) (*slot, bool) {
	if h.IsNil() || int(h.Index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.Index]
	if sl.gen != h.Gen || sl.entry == nil {
		return nil, false
	}
	if !sl.live && !staged {
		return nil, false
	}
	return sl, true
}

// Exists reports whether h names a committed record.
func (s *Store) Exists(h ir.Handle) bool {
	_, ok := s.lookup(h, false)
	return ok
}

// Model resolves a committed model record.
func (s *Store) Model(h ir.Handle) (*Model, error) {
	if sl, ok := s.lookup(h, false); ok {
		if m, isModel := sl.entry.(*Model); isModel {
			return m, nil
		}
	}
	return nil, stale(h, "model")
}

// View resolves a committed view record.
func (s *Store) View(h ir.Handle) (*View, error) {
	if sl, ok := s.lookup(h, false); ok {
		if v, isView := sl.entry.(*View); isView {
			return v, nil
		}
	}
	return nil, stale(h, "view")
}

// MustModel is Model for handles the caller has proven live.
// A failure is a programming fault and panics with *FaultError.
func (s *Store) MustModel(h ir.Handle) *Model {
	m, err := s.Model(h)
	if err != nil {
		panic(&FaultError{Op: "MustModel", Err: err})
	}
	return m
}

// MustView is View for handles the caller has proven live.
// A failure is a programming fault and panics with *FaultError.
func (s *Store) MustView(h ir.Handle) *View {
	v, err := s.View(h)
	if err != nil {
		panic(&FaultError{Op: "MustView", Err: err})
	}
	return v
}

// stagedView resolves a view that may not be flushed yet.
func (s *Store) stagedView(h ir.Handle) (*View, error) {
	if sl, ok := s.lookup(h, true); ok {
		if v, isView := sl.entry.(*View); isView {
			return v, nil
		}
	}
	return nil, stale(h, "view")
}

// Link makes child a child of parent. Both may still be staged. A view's
// parent is assigned exactly once.
func (s *Store) Link(parent, child ir.Handle) error {
	pv, err := s.stagedView(parent)
	if err != nil {
		return fmt.Errorf("link parent: %w", err)
	}
	cv, err := s.stagedView(child)
	if err != nil {
		return fmt.Errorf("link child: %w", err)
	}
	if parent == child {
		return fmt.Errorf("link %s: view cannot be its own parent", child)
	}
	if cv.attached() {
		return fmt.Errorf("link %s: already attached to %s", child, cv.parent)
	}
	cv.parent = ir.InView(parent)
	pv.children = append(pv.children, child)
	return nil
}

// Attach places a root view into a container slot.
func (s *Store) Attach(h ir.Handle, slot ir.Slot) error {
	v, err := s.stagedView(h)
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	if v.attached() {
		return fmt.Errorf("attach %s: already attached to %s", h, v.parent)
	}
	v.parent = ir.InSlot(slot)
	return nil
}

// SetText updates a model's text, pulsing FieldText only on change.
func (s *Store) SetText(h ir.Handle, text string) error {
	m, err := s.Model(h)
	if err != nil {
		return err
	}
	if m.text != text {
		m.text = text
		s.markDirty(h, ir.FieldText)
	}
	return nil
}

// SetChecked updates a todo's checked flag, pulsing FieldChecked on change.
func (s *Store) SetChecked(h ir.Handle, checked bool) error {
	m, err := s.Model(h)
	if err != nil {
		return err
	}
	if m.checked != checked {
		m.checked = checked
		s.markDirty(h, ir.FieldChecked)
	}
	return nil
}

// SetEditing updates a model's editing flag, pulsing FieldEditing on change.
func (s *Store) SetEditing(h ir.Handle, editing bool) error {
	m, err := s.Model(h)
	if err != nil {
		return err
	}
	if m.editing != editing {
		m.editing = editing
		s.markDirty(h, ir.FieldEditing)
	}
	return nil
}

func (s *Store) markDirty(h ir.Handle, f ir.Field) {
	prev, seen := s.dirty[h]
	if !seen {
		s.dirtyOrder = append(s.dirtyOrder, h)
	}
	s.dirty[h] = prev.With(f)
}

// Created returns the live models of kind committed this tick, in spawn order.
func (s *Store) Created(kind ir.ModelKind) []ir.Handle {
	var out []ir.Handle
	for _, h := range s.created {
		if m, err := s.Model(h); err == nil && m.kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// Dirty returns the live models whose field f changed this tick, in the
// order they first changed.
func (s *Store) Dirty(f ir.Field) []ir.Handle {
	var out []ir.Handle
	for _, h := range s.dirtyOrder {
		if s.dirty[h].Has(f) && s.Exists(h) {
			out = append(out, h)
		}
	}
	return out
}

// Removed returns the model handles destroyed this tick.
func (s *Store) Removed() []ir.Handle {
	return slices.Clone(s.removed)
}

// ViewsOf returns the committed views whose back-reference is model, in
// creation order. It answers for destroyed models too, until their views
// have been cascaded away.
func (s *Store) ViewsOf(model ir.Handle) []ir.Handle {
	return slices.Clone(s.byModel[model])
}

// Models returns every committed model handle in index order.
func (s *Store) Models() []ir.Handle {
	return s.collect(func(e Entry) bool { _, ok := e.(*Model); return ok })
}

// Views returns every committed view handle in index order.
func (s *Store) Views() []ir.Handle {
	return s.collect(func(e Entry) bool { _, ok := e.(*View); return ok })
}

// ViewsWithRole returns the committed views of role r in index order.
func (s *Store) ViewsWithRole(r ir.Role) []ir.Handle {
	return s.collect(func(e Entry) bool {
		v, ok := e.(*View)
		return ok && v.role == r
	})
}

func (s *Store) collect(keep func(Entry) bool) []ir.Handle {
	var out []ir.Handle
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.live && sl.entry != nil && keep(sl.entry) {
			out = append(out, ir.Handle{Index: uint32(i), Gen: sl.gen})
		}
	}
	return out
}

// Dangling returns committed views whose back-reference no longer names a
// live model. After a cascade pass this must be empty.
func (s *Store) Dangling() []ir.Handle {
	var out []ir.Handle
	for _, h := range s.Views() {
		if _, err := s.Model(s.MustView(h).model); err != nil {
			out = append(out, h)
		}
	}
	return out
}

// Snapshot captures the committed state for digests and assertions.
func (s *Store) Snapshot(tick int64, focus ir.Handle) ir.Snapshot {
	snap := ir.Snapshot{Tick: tick, Focus: focus}
	for _, h := range s.Models() {
		m := s.MustModel(h)
		snap.Models = append(snap.Models, ir.ModelState{
			Handle: h, Kind: m.kind, Text: m.text, Checked: m.checked, Editing: m.editing,
		})
	}
	for _, h := range s.Views() {
		v := s.MustView(h)
		snap.Views = append(snap.Views, ir.ViewState{
			Handle: h, Role: v.role, Model: v.model, Parent: v.parent,
			Children: v.Children(), Text: v.Text, Style: v.Style, Editable: v.Editable,
		})
	}
	return snap
}
