// Package stack implements the ordered, intrusively-linked stacks that
// rill uses for both the global window stacking order and each seat's
// focus recency order.
//
// Reordering is the hot path of focus handling and window cycling, so
// every mutating operation is O(1) given a node handle.
package stack

import (
	"iter"

	"deedles.dev/xiter"
)

// AttachMode selects which end of a stack newly mapped windows are
// inserted at.
type AttachMode int

const (
	AttachTop AttachMode = iota
	AttachBottom
)

// Direction selects which way an iteration walks the stack.
type Direction int

const (
	Forward Direction = iota // first to last
	Reverse                  // last to first
)

// A Node is one slot in a Stack. A node is in at most one stack, at most
// once, at any time. The zero value with a value assigned via New is
// ready to insert.
type Node[T any] struct {
	stack      *Stack[T]
	prev, next *Node[T]
	value      T
}

// New returns a detached node carrying v.
func New[T any](v T) *Node[T] {
	return &Node[T]{value: v}
}

// Value returns the value the node carries.
func (n *Node[T]) Value() T { return n.value }

// Next returns the node below n, or nil at the bottom.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node above n, or nil at the top.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// Attached reports whether the node is currently linked into a stack.
func (n *Node[T]) Attached() bool { return n.stack != nil }

// A Stack is a doubly-linked ordered sequence of nodes. The top of the
// stack is First; the bottom is Last. The zero value is an empty stack.
type Stack[T any] struct {
	first, last *Node[T]
	len         int
}

func (s *Stack[T]) Len() int        { return s.len }
func (s *Stack[T]) First() *Node[T] { return s.first }
func (s *Stack[T]) Last() *Node[T]  { return s.last }

// PushTop links n in as the new first node.
func (s *Stack[T]) PushTop(n *Node[T]) {
	if n.stack != nil {
		panic("stack: node is already in a stack")
	}
	n.stack = s
	n.prev = nil
	n.next = s.first
	if s.first != nil {
		s.first.prev = n
	} else {
		s.last = n
	}
	s.first = n
	s.len++
}

// AppendBottom links n in as the new last node.
func (s *Stack[T]) AppendBottom(n *Node[T]) {
	if n.stack != nil {
		panic("stack: node is already in a stack")
	}
	n.stack = s
	n.next = nil
	n.prev = s.last
	if s.last != nil {
		s.last.next = n
	} else {
		s.first = n
	}
	s.last = n
	s.len++
}

// Insert links n at the end selected by mode.
func (s *Stack[T]) Insert(n *Node[T], mode AttachMode) {
	if mode == AttachBottom {
		s.AppendBottom(n)
		return
	}
	s.PushTop(n)
}

// Remove unlinks n, repairing its neighbors and the stack ends. The node
// can be reinserted afterwards.
func (s *Stack[T]) Remove(n *Node[T]) {
	if n.stack != s {
		panic("stack: node is not in this stack")
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.last = n.prev
	}
	n.stack = nil
	n.prev = nil
	n.next = nil
	s.len--
}

// MoveToTop removes n from its current position and pushes it back on
// top.
func (s *Stack[T]) MoveToTop(n *Node[T]) {
	s.Remove(n)
	s.PushTop(n)
}

// Swap exchanges the positions of a and b, leaving every other node's
// relative order intact. Adjacent nodes and the first/last ends are
// handled; swapping twice restores the original order.
func (s *Stack[T]) Swap(a, b *Node[T]) {
	if a.stack != s || b.stack != s {
		panic("stack: node is not in this stack")
	}
	if a == b {
		return
	}

	// Normalize so that, if the two are adjacent, a comes first.
	if b.next == a {
		a, b = b, a
	}

	if a.next == b {
		// Adjacent: a's old prev and b's old next are the only outside
		// links.
		a.next = b.next
		b.prev = a.prev
		a.prev = b
		b.next = a
	} else {
		a.prev, b.prev = b.prev, a.prev
		a.next, b.next = b.next, a.next
	}

	for _, n := range [...]*Node[T]{a, b} {
		if n.prev != nil {
			n.prev.next = n
		} else {
			s.first = n
		}
		if n.next != nil {
			n.next.prev = n
		} else {
			s.last = n
		}
	}
}

// From returns a lazy, one-shot sequence of the values reachable from
// start, inclusive, walking in the given direction. A nil start yields
// nothing.
func From[T any](start *Node[T], dir Direction) iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := start; n != nil; {
			var succ *Node[T]
			if dir == Reverse {
				succ = n.prev
			} else {
				succ = n.next
			}
			if !yield(n.value) {
				return
			}
			n = succ
		}
	}
}

// Filtered is like From but yields only values for which keep returns
// true, skipping the rest without terminating.
func Filtered[T any](start *Node[T], dir Direction, keep func(T) bool) iter.Seq[T] {
	return xiter.Filter(From(start, dir), keep)
}

// All iterates the whole stack from top to bottom.
func (s *Stack[T]) All() iter.Seq[T] {
	return From(s.first, Forward)
}

// Backward iterates the whole stack from bottom to top.
func (s *Stack[T]) Backward() iter.Seq[T] {
	return From(s.last, Reverse)
}
