// Package scene is the renderer-side mirror of the engine's effect stream.
//
// A Scene plays the part of the external UI collaborator's retained node
// graph: it applies CreateView, SetText, SetStyle, SetEditable, DestroyView,
// RequestFocus and SetViewport effects, and checks the ordering contract
// while doing so (parents before children on create, children before
// parents on destroy). The terminal frontend draws from it and the harness
// renders it to golden files.
package scene

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/mvsync/internal/ir"
)

// Node is one displayed view.
type Node struct {
	View     ir.Handle
	Role     ir.Role
	Model    ir.Handle
	Parent   ir.Parent
	Children []ir.Handle
	Text     string
	Style    ir.Style
	Editable bool
}

// Scene is a retained tree of nodes rooted in container slots.
//
// Thread-safety: safe for concurrent use; the engine applies batches from
// its tick goroutine while the frontend reads.
type Scene struct {
	mu      sync.RWMutex
	slots   []ir.Slot
	roots   map[ir.Slot][]ir.Handle
	nodes   map[ir.Handle]*Node
	focus   ir.Handle
	width   int
	height  int
	err     error
	batches int
}

// New creates an empty scene with the given container slots.
func New(slots ...ir.Slot) *Scene {
	s := &Scene{
		roots: make(map[ir.Slot][]ir.Handle, len(slots)),
		nodes: make(map[ir.Handle]*Node),
	}
	for _, slot := range slots {
		if _, dup := s.roots[slot]; dup {
			continue
		}
		s.slots = append(s.slots, slot)
		s.roots[slot] = nil
	}
	return s
}

// Slots returns the container slots in registration order.
func (s *Scene) Slots() []ir.Slot {
	return slices.Clone(s.slots)
}

// Apply applies one effect batch. Implements engine.Renderer.
//
// Effects violating the protocol are skipped; the first violation is kept
// and reported by Err.
func (s *Scene) Apply(effects []ir.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	for _, e := range effects {
		if err := s.apply(e); err != nil && s.err == nil {
			s.err = fmt.Errorf("batch %d: %s: %w", s.batches, e.Kind(), err)
		}
	}
}

// Err returns the first protocol violation seen, if any.
func (s *Scene) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Scene) apply(e ir.Effect) error {
	switch eff := e.(type) {
	case ir.CreateView:
		return s.create(eff)
	case ir.SetText:
		n, err := s.node(eff.View)
		if err != nil {
			return err
		}
		n.Text = eff.Text
	case ir.SetStyle:
		n, err := s.node(eff.View)
		if err != nil {
			return err
		}
		n.Style = eff.Style
	case ir.SetEditable:
		n, err := s.node(eff.View)
		if err != nil {
			return err
		}
		n.Editable = eff.Editable
	case ir.DestroyView:
		return s.destroy(eff.View)
	case ir.RequestFocus:
		if !eff.View.IsNil() {
			if _, err := s.node(eff.View); err != nil {
				return err
			}
		}
		s.focus = eff.View
	case ir.SetViewport:
		s.width, s.height = eff.Width, eff.Height
	default:
		return fmt.Errorf("unknown effect %T", e)
	}
	return nil
}

func (s *Scene) node(h ir.Handle) (*Node, error) {
	n, ok := s.nodes[h]
	if !ok {
		return nil, fmt.Errorf("no node %s", h)
	}
	return n, nil
}

func (s *Scene) create(cv ir.CreateView) error {
	if cv.View.IsNil() {
		return fmt.Errorf("create nil view")
	}
	if _, exists := s.nodes[cv.View]; exists {
		return fmt.Errorf("node %s already exists", cv.View)
	}
	if cv.Parent.IsSlot() {
		if _, ok := s.roots[cv.Parent.Slot]; !ok {
			return fmt.Errorf("unknown slot %q", cv.Parent.Slot)
		}
		s.roots[cv.Parent.Slot] = append(s.roots[cv.Parent.Slot], cv.View)
	} else {
		parent, err := s.node(cv.Parent.View)
		if err != nil {
			return fmt.Errorf("parent of %s: %w", cv.View, err)
		}
		parent.Children = append(parent.Children, cv.View)
	}
	s.nodes[cv.View] = &Node{
		View:   cv.View,
		Role:   cv.Role,
		Model:  cv.Model,
		Parent: cv.Parent,
		Text:   cv.Text,
		Style:  cv.Style,
	}
	return nil
}

func (s *Scene) destroy(h ir.Handle) error {
	n, err := s.node(h)
	if err != nil {
		return err
	}
	if len(n.Children) > 0 {
		return fmt.Errorf("node %s destroyed before its %d children", h, len(n.Children))
	}
	if n.Parent.IsSlot() {
		s.roots[n.Parent.Slot] = remove(s.roots[n.Parent.Slot], h)
	} else if parent, ok := s.nodes[n.Parent.View]; ok {
		parent.Children = remove(parent.Children, h)
	}
	delete(s.nodes, h)
	return nil
}

func remove(hs []ir.Handle, h ir.Handle) []ir.Handle {
	if i := slices.Index(hs, h); i >= 0 {
		return slices.Delete(hs, i, i+1)
	}
	return hs
}

// Node returns a copy of the node for h.
func (s *Scene) Node(h ir.Handle) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[h]
	if !ok {
		return Node{}, false
	}
	cp := *n
	cp.Children = slices.Clone(n.Children)
	return cp, true
}

// Roots returns the root views in slot, in creation order.
func (s *Scene) Roots(slot ir.Slot) []ir.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roots[slot])
}

// Find returns the first descendant of root (root included) with role r.
func (s *Scene) Find(root ir.Handle, r ir.Role) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := s.find(root, r); n != nil {
		cp := *n
		cp.Children = slices.Clone(n.Children)
		return cp, true
	}
	return Node{}, false
}

func (s *Scene) find(h ir.Handle, r ir.Role) *Node {
	n, ok := s.nodes[h]
	if !ok {
		return nil
	}
	if n.Role == r {
		return n
	}
	for _, c := range n.Children {
		if found := s.find(c, r); found != nil {
			return found
		}
	}
	return nil
}

// Focus returns the focused view, or Nil.
func (s *Scene) Focus() ir.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// Viewport returns the last SetViewport metrics.
func (s *Scene) Viewport() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Render returns a deterministic text outline of the scene:
//
//	== input ==
//	input-box [editing]
//	  input-label "" *editable* <focus>
//
// Labels always show their quoted text; other roles never do. Styles other
// than normal are shown in brackets.
func (s *Scene) Render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	for _, slot := range s.slots {
		fmt.Fprintf(&b, "== %s ==\n", slot)
		for _, root := range s.roots[slot] {
			s.render(&b, root, 0)
		}
	}
	if s.focus.IsNil() {
		b.WriteString("focus: none\n")
	} else if n, ok := s.nodes[s.focus]; ok {
		fmt.Fprintf(&b, "focus: %s %q\n", n.Role, n.Text)
	}
	return b.String()
}

func (s *Scene) render(b *strings.Builder, h ir.Handle, depth int) {
	n, ok := s.nodes[h]
	if !ok {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Role))
	if n.Role.Label() {
		fmt.Fprintf(b, " %q", n.Text)
	}
	if n.Style != "" && n.Style != ir.StyleNormal {
		fmt.Fprintf(b, " [%s]", n.Style)
	}
	if n.Editable {
		b.WriteString(" *editable*")
	}
	if h == s.focus {
		b.WriteString(" <focus>")
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		s.render(b, c, depth+1)
	}
}
