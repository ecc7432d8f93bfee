// Package piecetree provides a piece-table text buffer backed by a
// persistent (functionally immutable) red-black tree.
//
// Document text lives in two kinds of character buffers: immutable original
// buffers supplied at construction time, and a single append-only mod buffer
// that receives all inserted text. The tree orders pieces — half-open windows
// into those buffers — by cumulative code-unit offset, and every node caches
// the total length and line-feed count of its left subtree. Those order
// statistics give O(log n) offset and line lookups without storing explicit
// keys.
//
// Because edits allocate new nodes only along the mutated path and share the
// rest of the structure, retaining an old root is enough to keep an entire
// document state alive. Undo/redo is two stacks of retained roots, and
// snapshots are read-only views pinned to a root.
//
// Key features:
//   - O(log n) insert, remove, offset lookup, and line lookup
//   - O(1) undo/redo via whole-tree root snapshots
//   - Cheap owning and referencing snapshots for background readers
//   - Forward and reverse code-unit walkers with O(log n) seek
//   - CRLF-aware line content and line range queries
//
// Basic usage:
//
//	var b piecetree.TreeBuilder
//	b.AcceptString("hello\nworld")
//	t := b.Create()
//	t.InsertString(5, ", there", piecetree.SuppressHistoryNo)
//	line := t.LineContent(1)       // "hello, there\n"
//	t.TryUndo(0)                   // back to "hello\nworld"
//
// Offsets, lengths, and columns are always measured in code units. The code
// unit width is a build-time choice: UTF-8 bytes by default, UTF-16 or UTF-32
// units under the piecetree_utf16 / piecetree_utf32 build tags.
//
// A Tree is not safe for concurrent mutation. Snapshots may be read from
// other goroutines: an OwningSnapshot is always safe, a ReferenceSnapshot is
// safe as long as the originating tree is not mutated during the read.
package piecetree
