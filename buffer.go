package piecetree

// CharBuffer is one character buffer: an immutable text payload plus the
// offsets at which its lines start. lineStarts always begins with 0 and
// contains i for every i such that text[i-1] == '\n'.
type CharBuffer struct {
	text       []CodeUnit
	lineStarts []Offset
}

func newCharBuffer(text []CodeUnit) *CharBuffer {
	return &CharBuffer{
		text:       text,
		lineStarts: populateLineStarts(nil, text),
	}
}

// clone deep-copies the buffer. Used when an owning snapshot detaches the
// mod buffer from its tree.
func (b *CharBuffer) clone() CharBuffer {
	text := make([]CodeUnit, len(b.text))
	copy(text, b.text)
	starts := make([]Offset, len(b.lineStarts))
	copy(starts, b.lineStarts)
	return CharBuffer{text: text, lineStarts: starts}
}

// populateLineStarts appends the line-start offsets of buf to dst and
// returns it. The result always begins with 0.
func populateLineStarts(dst []Offset, buf []CodeUnit) []Offset {
	dst = append(dst, 0)
	for i, c := range buf {
		if c == '\n' {
			dst = append(dst, Offset(i+1))
		}
	}
	return dst
}

// BufferCollection holds the original buffers plus the single append-only
// mod buffer that receives all inserted text.
type BufferCollection struct {
	origBuffers []*CharBuffer
	modBuffer   CharBuffer
}

// bufferAt resolves a buffer index, treating ModBuf as the mod buffer.
func (bc *BufferCollection) bufferAt(index BufferIndex) *CharBuffer {
	if index == ModBuf {
		return &bc.modBuffer
	}
	return bc.origBuffers[index]
}

// bufferOffset flattens a (line, column) cursor to a code-unit offset
// within the cursor's buffer.
func (bc *BufferCollection) bufferOffset(index BufferIndex, cursor BufferCursor) Offset {
	starts := bc.bufferAt(index).lineStarts
	return starts[cursor.Line] + Offset(cursor.Column)
}

// clone copies the collection for an owning snapshot: original buffers are
// shared (they never change), the mod buffer is deep-copied so later inserts
// on the tree cannot be observed.
func (bc *BufferCollection) clone() BufferCollection {
	origs := make([]*CharBuffer, len(bc.origBuffers))
	copy(origs, bc.origBuffers)
	return BufferCollection{
		origBuffers: origs,
		modBuffer:   bc.modBuffer.clone(),
	}
}

// TreeBuilder accumulates original buffers for a Tree. The zero value is
// ready to use.
type TreeBuilder struct {
	buffers []*CharBuffer
}

// Accept enqueues one original buffer. The builder takes ownership of text;
// callers must not modify it afterward.
func (b *TreeBuilder) Accept(text []CodeUnit) {
	b.buffers = append(b.buffers, newCharBuffer(text))
}

// AcceptString enqueues one original buffer given as a string.
func (b *TreeBuilder) AcceptString(s string) {
	b.Accept(DecodeString(s))
}

// Create finalizes the builder into a Tree. Ownership of the accepted
// buffers transfers to the tree; the builder is reset.
func (b *TreeBuilder) Create() *Tree {
	t := newTreeFromBuffers(b.buffers)
	b.buffers = nil
	return t
}
