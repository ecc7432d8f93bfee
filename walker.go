package piecetree

// Walkers are stack-based in-order traversals. Each frame remembers which
// of its three visits (left subtree, own piece, right subtree) comes next;
// a seek descends like nodeAt, pushing frames pre-advanced so traversal
// resumes mid-piece. Walking n code units after a seek costs O(n + log n).

type walkerDirection uint8

const (
	dirLeft walkerDirection = iota
	dirCenter
	dirRight
)

type walkerFrame struct {
	n   *node
	dir walkerDirection
}

// WalkerSource is anything a walker can read: a Tree, an OwningSnapshot,
// or a ReferenceSnapshot.
type WalkerSource interface {
	walkerParts() (*BufferCollection, *node, BufferMeta)
}

// TreeWalker yields code units in document order.
type TreeWalker struct {
	buffers     *BufferCollection
	root        *node
	meta        BufferMeta
	stack       []walkerFrame
	totalOffset Offset
	buf         []CodeUnit
	first, last int
}

// NewTreeWalker returns a forward walker positioned at offset.
func NewTreeWalker(src WalkerSource, offset Offset) *TreeWalker {
	bc, root, meta := src.walkerParts()
	return newWalker(bc, root, meta, offset)
}

func newWalker(bc *BufferCollection, root *node, meta BufferMeta, offset Offset) *TreeWalker {
	w := &TreeWalker{
		buffers:     bc,
		root:        root,
		meta:        meta,
		stack:       []walkerFrame{{n: root, dir: dirLeft}},
		totalOffset: offset,
	}
	w.fastForwardTo(offset)
	return w
}

// Next returns the code unit at the cursor and advances. At exhaustion it
// returns 0; callers for whom 0 is valid content must check Exhausted.
func (w *TreeWalker) Next() CodeUnit {
	if w.first == w.last {
		w.populatePtrs()
		if w.Exhausted() {
			return 0
		}
		if w.first == w.last {
			return w.Next()
		}
	}
	w.totalOffset++
	c := w.buf[w.first]
	w.first++
	return c
}

// Current returns the code unit at the cursor without advancing.
func (w *TreeWalker) Current() CodeUnit {
	if w.first == w.last {
		w.populatePtrs()
		if w.Exhausted() {
			return 0
		}
	}
	return w.buf[w.first]
}

// Seek repositions the walker at offset in O(log n).
func (w *TreeWalker) Seek(offset Offset) {
	w.stack = w.stack[:0]
	w.stack = append(w.stack, walkerFrame{n: w.root, dir: dirLeft})
	w.first, w.last = 0, 0
	w.totalOffset = offset
	w.fastForwardTo(offset)
}

// Exhausted reports whether the walker has passed the final code unit.
func (w *TreeWalker) Exhausted() bool {
	if len(w.stack) == 0 {
		return true
	}
	if w.first != w.last {
		return false
	}
	if len(w.stack) > 1 {
		return false
	}
	entry := w.stack[0]
	if entry.n == nil {
		return true
	}
	if entry.dir == dirRight && entry.n.right == nil {
		return true
	}
	return false
}

// Remaining returns the number of code units left to yield.
func (w *TreeWalker) Remaining() Offset {
	return w.meta.TotalContentLength - w.totalOffset
}

// Offset returns the document offset of the cursor.
func (w *TreeWalker) Offset() Offset {
	return w.totalOffset
}

func (w *TreeWalker) populatePtrs() {
	if w.Exhausted() {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.n == nil {
		w.stack = w.stack[:len(w.stack)-1]
		w.populatePtrs()
		return
	}
	n, dir := top.n, top.dir
	if dir == dirLeft {
		if n.left != nil {
			top.dir = dirCenter
			w.stack = append(w.stack, walkerFrame{n: n.left, dir: dirLeft})
			w.populatePtrs()
			return
		}
		// No left subtree; fall through to the piece itself.
		top.dir = dirCenter
		dir = dirCenter
	}
	if dir == dirCenter {
		p := n.data.piece
		buffer := w.buffers.bufferAt(p.index)
		w.buf = buffer.text
		w.first = int(w.buffers.bufferOffset(p.index, p.first))
		w.last = int(w.buffers.bufferOffset(p.index, p.last))
		top.dir = dirRight
		return
	}
	right := n.right
	w.stack = w.stack[:len(w.stack)-1]
	w.stack = append(w.stack, walkerFrame{n: right, dir: dirLeft})
	w.populatePtrs()
}

func (w *TreeWalker) fastForwardTo(offset Offset) {
	n := w.root
	for n != nil {
		leftLen := n.data.leftLen
		pieceLen := n.data.piece.length
		if leftLen > offset {
			// For when this frame is revisited.
			w.stack[len(w.stack)-1].dir = dirCenter
			n = n.left
			w.stack = append(w.stack, walkerFrame{n: n, dir: dirLeft})
		} else if leftLen+pieceLen > offset {
			w.stack[len(w.stack)-1].dir = dirRight
			offset -= leftLen
			p := n.data.piece
			buffer := w.buffers.bufferAt(p.index)
			w.buf = buffer.text
			w.first = int(w.buffers.bufferOffset(p.index, p.first) + offset)
			w.last = int(w.buffers.bufferOffset(p.index, p.last))
			return
		} else {
			// This parent is no longer relevant.
			w.stack = w.stack[:len(w.stack)-1]
			offset -= leftLen + pieceLen
			n = n.right
			w.stack = append(w.stack, walkerFrame{n: n, dir: dirLeft})
		}
	}
}

// ReverseTreeWalker yields code units in reverse document order, starting
// at the given offset and moving toward 0.
type ReverseTreeWalker struct {
	buffers     *BufferCollection
	root        *node
	meta        BufferMeta
	stack       []walkerFrame
	totalOffset Offset
	buf         []CodeUnit
	first, last int
}

// NewReverseTreeWalker returns a reverse walker whose first Next yields the
// code unit at offset.
func NewReverseTreeWalker(src WalkerSource, offset Offset) *ReverseTreeWalker {
	bc, root, meta := src.walkerParts()
	w := &ReverseTreeWalker{
		buffers:     bc,
		root:        root,
		meta:        meta,
		stack:       []walkerFrame{{n: root, dir: dirRight}},
		totalOffset: offset,
	}
	w.fastForwardTo(offset)
	return w
}

// Next returns the code unit at the cursor and retreats. At exhaustion it
// returns 0.
func (w *ReverseTreeWalker) Next() CodeUnit {
	if w.first == w.last {
		w.populatePtrs()
		if w.Exhausted() {
			return 0
		}
		if w.first == w.last {
			return w.Next()
		}
	}
	// Past offset 0 this wraps; Exhausted and Remaining account for it.
	w.totalOffset--
	w.first--
	return w.buf[w.first]
}

// Current returns the code unit at the cursor without retreating.
func (w *ReverseTreeWalker) Current() CodeUnit {
	if w.first == w.last {
		w.populatePtrs()
		if w.Exhausted() {
			return 0
		}
	}
	return w.buf[w.first-1]
}

// Seek repositions the walker at offset in O(log n).
func (w *ReverseTreeWalker) Seek(offset Offset) {
	w.stack = w.stack[:0]
	w.stack = append(w.stack, walkerFrame{n: w.root, dir: dirRight})
	w.first, w.last = 0, 0
	w.totalOffset = offset
	w.fastForwardTo(offset)
}

// Exhausted reports whether the walker has passed offset 0.
func (w *ReverseTreeWalker) Exhausted() bool {
	if len(w.stack) == 0 {
		return true
	}
	if w.first != w.last {
		return false
	}
	if len(w.stack) > 1 {
		return false
	}
	entry := w.stack[0]
	if entry.n == nil {
		return true
	}
	if entry.dir == dirLeft && entry.n.left == nil {
		return true
	}
	return false
}

// Remaining returns the number of code units left to yield; the cursor
// position itself is still unread, hence the +1.
func (w *ReverseTreeWalker) Remaining() Offset {
	return w.totalOffset + 1
}

// Offset returns the document offset of the cursor.
func (w *ReverseTreeWalker) Offset() Offset {
	return w.totalOffset
}

func (w *ReverseTreeWalker) populatePtrs() {
	if w.Exhausted() {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.n == nil {
		w.stack = w.stack[:len(w.stack)-1]
		w.populatePtrs()
		return
	}
	n, dir := top.n, top.dir
	if dir == dirRight {
		if n.right != nil {
			top.dir = dirCenter
			w.stack = append(w.stack, walkerFrame{n: n.right, dir: dirRight})
			w.populatePtrs()
			return
		}
		top.dir = dirCenter
		dir = dirCenter
	}
	if dir == dirCenter {
		p := n.data.piece
		buffer := w.buffers.bufferAt(p.index)
		w.buf = buffer.text
		// Reversed bounds: reads walk first down toward last.
		w.last = int(w.buffers.bufferOffset(p.index, p.first))
		w.first = int(w.buffers.bufferOffset(p.index, p.last))
		top.dir = dirLeft
		return
	}
	left := n.left
	w.stack = w.stack[:len(w.stack)-1]
	w.stack = append(w.stack, walkerFrame{n: left, dir: dirRight})
	w.populatePtrs()
}

func (w *ReverseTreeWalker) fastForwardTo(offset Offset) {
	n := w.root
	for n != nil {
		leftLen := n.data.leftLen
		pieceLen := n.data.piece.length
		if leftLen > offset {
			// This parent is no longer relevant.
			w.stack = w.stack[:len(w.stack)-1]
			n = n.left
			w.stack = append(w.stack, walkerFrame{n: n, dir: dirRight})
		} else if leftLen+pieceLen > offset {
			w.stack[len(w.stack)-1].dir = dirLeft
			offset -= leftLen
			p := n.data.piece
			buffer := w.buffers.bufferAt(p.index)
			w.buf = buffer.text
			w.last = int(w.buffers.bufferOffset(p.index, p.first))
			// The cursor position itself must be yielded first, and reads
			// pre-decrement, so begin one past it.
			w.first = int(w.buffers.bufferOffset(p.index, p.first) + offset + 1)
			return
		} else {
			// For when this frame is revisited.
			w.stack[len(w.stack)-1].dir = dirCenter
			offset -= leftLen + pieceLen
			n = n.right
			w.stack = append(w.stack, walkerFrame{n: n, dir: dirRight})
		}
	}
}
