// Package tree describes a parent/children view subtree as one expression
// and flattens it into (parent, child) link pairs.
//
// Building a tree and committing its links are separate steps:
//
//	row := tree.New(rowView,
//		tree.New(checkView, tree.Leaf(checkLabel)),
//		tree.New(textView, tree.Leaf(textLabel)),
//	)
//	err := tree.Commit(store, row.Links())
package tree

import (
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// Child is a subtree member: a Leaf handle or a nested Node.
type Child interface {
	root() ir.Handle
	walk(visit func(parent ir.Handle, n Child))
}

// Leaf is a child with no children of its own.
type Leaf ir.Handle

func (l Leaf) root() ir.Handle                       { return ir.Handle(l) }
func (l Leaf) walk(func(parent ir.Handle, n Child)) {}

// Node is a root handle plus its ordered children.
type Node struct {
	Root     ir.Handle
	Children []Child
}

// New builds a node. Children may mix Leaf handles and nested nodes.
func New(root ir.Handle, children ...Child) Node {
	return Node{Root: root, Children: children}
}

func (n Node) root() ir.Handle { return n.Root }

func (n Node) walk(visit func(parent ir.Handle, c Child)) {
	for _, c := range n.Children {
		visit(n.Root, c)
		c.walk(visit)
	}
}

// Link is one parent-child edge.
type Link struct {
	Parent ir.Handle
	Child  ir.Handle
}

func (l Link) String() string {
	return fmt.Sprintf("%s->%s", l.Parent, l.Child)
}

// Links flattens the tree into edges in pre-order: a parent's edge to a
// child always precedes the child's own edges.
func (n Node) Links() []Link {
	var out []Link
	n.walk(func(parent ir.Handle, c Child) {
		out = append(out, Link{Parent: parent, Child: c.root()})
	})
	return out
}

// Handles returns every handle in the tree in pre-order, root first.
func (n Node) Handles() []ir.Handle {
	out := []ir.Handle{n.Root}
	n.walk(func(_ ir.Handle, c Child) {
		out = append(out, c.root())
	})
	return out
}

// Linker commits a single edge. *record.Store implements it.
type Linker interface {
	Link(parent, child ir.Handle) error
}

// Commit applies links in order and stops at the first failure.
func Commit(l Linker, links []Link) error {
	for i, link := range links {
		if err := l.Link(link.Parent, link.Child); err != nil {
			return fmt.Errorf("commit link %d (%s): %w", i, link, err)
		}
	}
	return nil
}
