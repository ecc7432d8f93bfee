package piecetree

// Line queries compose the tree descent with binary searches over each
// buffer's line starts. A target line is located by walking the augmented
// LF counts; the code units before it are summed from the cached left
// lengths plus an in-piece accumulation.

// accumulator measures code units from a piece's start to the end of a
// relative line index within the piece. The two variants differ only in
// whether an included '\n' terminator is counted.
type accumulator func(*BufferCollection, piece, Line) Offset

// accumulateValue returns the length from the piece's start to the end of
// line index (0-based within the piece), including the '\n' terminator.
// Indexes past the piece's last line clamp to the piece end.
func accumulateValue(bc *BufferCollection, p piece, index Line) Offset {
	buffer := bc.bufferAt(p.index)
	starts := buffer.lineStarts
	// One past the requested line so the newline is captured too.
	expectedStart := p.first.Line + index + 1
	first := starts[p.first.Line] + Offset(p.first.Column)
	if expectedStart > p.last.Line {
		last := starts[p.last.Line] + Offset(p.last.Column)
		return last - first
	}
	last := starts[expectedStart]
	return last - first
}

// accumulateValueNoLF is accumulateValue excluding an included '\n'.
func accumulateValueNoLF(bc *BufferCollection, p piece, index Line) Offset {
	buffer := bc.bufferAt(p.index)
	starts := buffer.lineStarts
	expectedStart := p.first.Line + index + 1
	first := starts[p.first.Line] + Offset(p.first.Column)
	var last Offset
	if expectedStart > p.last.Line {
		last = starts[p.last.Line] + Offset(p.last.Column)
	} else {
		last = starts[expectedStart]
	}
	if last == first {
		return 0
	}
	if buffer.text[last-1] == '\n' {
		return last - 1 - first
	}
	return last - first
}

// lineStart adds to *offset the document offset where the given 1-based
// line begins (or, via the accumulator with line+1, where it ends).
func lineStart(offset *Offset, bc *BufferCollection, n *node, line Line, acc accumulator) {
	if n == nil {
		return
	}
	lineIndex := uint64(line - 1)
	if uint64(n.data.leftLF) >= lineIndex {
		lineStart(offset, bc, n.left, line, acc)
		return
	}
	// The line starts inside this piece.
	if uint64(n.data.leftLF)+uint64(n.data.piece.newlineCount) >= lineIndex {
		lineIndex -= uint64(n.data.leftLF)
		length := n.data.leftLen
		if lineIndex != 0 {
			length += acc(bc, n.data.piece, Line(lineIndex-1))
		}
		*offset += length
		return
	}
	lineIndex -= uint64(n.data.leftLF) + uint64(n.data.piece.newlineCount)
	*offset += n.data.leftLen + n.data.piece.length
	lineStart(offset, bc, n.right, Line(lineIndex+1), acc)
}

// lineEndCRLF is the no-LF line end with an extra retraction when the two
// code units ending there form "\r\n". The pair may straddle pieces, so the
// check reads through the whole tree rather than a single buffer.
func lineEndCRLF(offset *Offset, bc *BufferCollection, root, n *node, line Line) {
	if n == nil {
		return
	}
	lineIndex := uint64(line - 1)
	if uint64(n.data.leftLF) >= lineIndex {
		lineEndCRLF(offset, bc, root, n.left, line)
		return
	}
	if uint64(n.data.leftLF)+uint64(n.data.piece.newlineCount) >= lineIndex {
		lineIndex -= uint64(n.data.leftLF)
		length := n.data.leftLen
		if lineIndex != 0 {
			length += accumulateValueNoLF(bc, n.data.piece, Line(lineIndex-1))
		}
		// The line end may sit at the very start of this piece with the
		// '\r' at the end of an earlier one, so test the global position.
		if end := *offset + length; end != 0 {
			lastChar := end - 1
			if charAt(bc, root, lastChar) == '\r' && charAt(bc, root, lastChar+1) == '\n' {
				length--
			}
		}
		*offset += length
		return
	}
	lineIndex -= uint64(n.data.leftLF) + uint64(n.data.piece.newlineCount)
	*offset += n.data.leftLen + n.data.piece.length
	lineEndCRLF(offset, bc, root, n.right, Line(lineIndex+1))
}

// assembleLine collects the content of a line, including its trailing '\n'
// when present.
func assembleLine(bc *BufferCollection, root *node, meta BufferMeta, line Line) []CodeUnit {
	if root == nil {
		return nil
	}
	var lineOffset Offset
	lineStart(&lineOffset, bc, root, line, accumulateValue)
	w := newWalker(bc, root, meta, lineOffset)
	var buf []CodeUnit
	for !w.Exhausted() {
		c := w.Next()
		buf = append(buf, c)
		if c == '\n' {
			break
		}
	}
	return buf
}

// assembleLineCRLF collects a line excluding a trailing "\r\n" pair or lone
// '\n'. A lone trailing '\r' is content and is kept. The flag reports
// whether the walk hit the end of the document before any '\n' — a
// truncated final line.
func assembleLineCRLF(bc *BufferCollection, root *node, meta BufferMeta, line Line) ([]CodeUnit, IncompleteCRLF) {
	if root == nil {
		return nil, IncompleteCRLFNo
	}
	var lineOffset Offset
	lineStart(&lineOffset, bc, root, line, accumulateValue)
	w := newWalker(bc, root, meta, lineOffset)
	var buf []CodeUnit
	var prev CodeUnit
	for !w.Exhausted() {
		c := w.Next()
		if c == '\n' {
			if prev == '\r' {
				buf = buf[:len(buf)-1]
			}
			return buf, IncompleteCRLFNo
		}
		buf = append(buf, c)
		prev = c
	}
	return buf, IncompleteCRLFYes
}

// collectText assembles the whole document through a walker.
func collectText(bc *BufferCollection, root *node, meta BufferMeta) []CodeUnit {
	buf := make([]CodeUnit, 0, meta.TotalContentLength)
	w := newWalker(bc, root, meta, 0)
	for !w.Exhausted() {
		buf = append(buf, w.Next())
	}
	return buf
}

// LineContent returns the content of the 1-based line, including its
// trailing '\n' when present. LineIndexBeginning yields nil.
func (t *Tree) LineContent(line Line) []CodeUnit {
	if line == LineIndexBeginning {
		return nil
	}
	return assembleLine(&t.buffers, t.root, t.meta, line)
}

// LineContentString is LineContent converted for this build's encoding.
func (t *Tree) LineContentString(line Line) string {
	return EncodeString(t.LineContent(line))
}

// LineContentCRLF returns the line excluding a trailing "\r\n" or lone
// '\n'. The flag reports a final line with no terminator at all.
func (t *Tree) LineContentCRLF(line Line) ([]CodeUnit, IncompleteCRLF) {
	if line == LineIndexBeginning {
		return nil, IncompleteCRLFNo
	}
	return assembleLineCRLF(&t.buffers, t.root, t.meta, line)
}

// LineRange returns [first, last) for the line, where last stops just
// before the '\n'.
func (t *Tree) LineRange(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &t.buffers, t.root, line, accumulateValue)
	lineStart(&r.Last, &t.buffers, t.root, line+1, accumulateValueNoLF)
	return r
}

// LineRangeCRLF is LineRange with last additionally retracted past a
// terminating "\r\n" pair.
func (t *Tree) LineRangeCRLF(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &t.buffers, t.root, line, accumulateValue)
	lineEndCRLF(&r.Last, &t.buffers, t.root, t.root, line+1)
	return r
}

// LineRangeWithNewline returns [first, last) where last is the start of
// the next line, so the '\n' is included.
func (t *Tree) LineRangeWithNewline(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &t.buffers, t.root, line, accumulateValue)
	lineStart(&r.Last, &t.buffers, t.root, line+1, accumulateValue)
	return r
}

// Text returns the entire document content.
func (t *Tree) Text() []CodeUnit {
	return collectText(&t.buffers, t.root, t.meta)
}

// TextString is Text converted for this build's encoding.
func (t *Tree) TextString() string {
	return EncodeString(t.Text())
}

// Substr returns up to count code units starting at offset, clamped to the
// end of the document.
func (t *Tree) Substr(offset, count Offset) []CodeUnit {
	w := newWalker(&t.buffers, t.root, t.meta, offset)
	if r := w.Remaining(); count > r {
		count = r
	}
	buf := make([]CodeUnit, 0, count)
	for Offset(len(buf)) < count && !w.Exhausted() {
		buf = append(buf, w.Next())
	}
	return buf
}

// OffsetAt flattens a (line, column) position to a document offset,
// clamping the column to the line's extent including its newline.
func (t *Tree) OffsetAt(line Line, column Column) Offset {
	if line == LineIndexBeginning {
		return 0
	}
	r := t.LineRangeWithNewline(line)
	off := r.First + Offset(column)
	if off > r.Last {
		off = r.Last
	}
	return off
}
