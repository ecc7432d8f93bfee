package piecetree

// Tree is the piece-tree text buffer. It owns the character buffers, the
// current root, and the undo/redo stacks. The zero value is not usable;
// construct with NewTree or TreeBuilder.Create.
//
// A Tree must not be mutated concurrently with any other access. Use
// snapshots to read from other goroutines.
type Tree struct {
	buffers       BufferCollection
	root          *node
	scratchStarts []Offset
	lastInsert    BufferCursor
	endLastInsert Offset
	meta          BufferMeta
	undoStack     []undoRedoEntry
	redoStack     []undoRedoEntry
}

// nodePosition is the result of an offset descent: the hit node, the
// remainder into its piece, the document offset where the piece starts, and
// the 1-based line containing the offset.
type nodePosition struct {
	node        *nodeData
	remainder   Offset
	startOffset Offset
	line        Line
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return newTreeFromBuffers(nil)
}

func newTreeFromBuffers(buffers []*CharBuffer) *Tree {
	t := &Tree{
		buffers: BufferCollection{origBuffers: buffers},
	}
	t.buildTree()
	return t
}

// buildTree resets the mod buffer and assembles the initial tree, one piece
// per non-empty original buffer.
func (t *Tree) buildTree() {
	t.buffers.modBuffer.text = nil
	// The mod buffer keeps the same shape as every other buffer: a single
	// line start of 0 even while empty.
	t.buffers.modBuffer.lineStarts = []Offset{0}
	t.lastInsert = BufferCursor{}
	t.endLastInsert = sentinelOffset

	var offset Offset
	for i, buf := range t.buffers.origBuffers {
		// An empty original buffer contributes no piece at all.
		if len(buf.text) == 0 {
			continue
		}
		lastLine := Line(len(buf.lineStarts) - 1)
		p := piece{
			index: BufferIndex(i),
			first: BufferCursor{},
			last: BufferCursor{
				Line:   lastLine,
				Column: Column(Offset(len(buf.text)) - buf.lineStarts[lastLine]),
			},
			length:       Offset(len(buf.text)),
			newlineCount: LFCount(lastLine),
		}
		t.root = insert(t.root, nodeData{piece: p}, offset)
		offset += p.length
	}

	t.computeBufferMeta()
}

func (t *Tree) computeBufferMeta() {
	t.meta.LFCount = treeLFCount(t.root)
	t.meta.TotalContentLength = treeLength(t.root)
}

// Length returns the total document length in code units.
func (t *Tree) Length() Offset {
	return t.meta.TotalContentLength
}

// IsEmpty reports whether the document has no content.
func (t *Tree) IsEmpty() bool {
	return t.meta.TotalContentLength == 0
}

// LineFeedCount returns the number of '\n' units in the document.
func (t *Tree) LineFeedCount() LFCount {
	return t.meta.LFCount
}

// LineCount returns the number of lines, which is always LineFeedCount+1.
func (t *Tree) LineCount() Line {
	return Line(t.meta.LFCount) + 1
}

// At returns the code unit at offset, or 0 when offset is past the end.
func (t *Tree) At(offset Offset) CodeUnit {
	return charAt(&t.buffers, t.root, offset)
}

// LineAt returns the 1-based line containing offset. An empty tree yields
// LineBeginning; an offset past the end yields the last line.
func (t *Tree) LineAt(offset Offset) Line {
	if t.IsEmpty() {
		return LineBeginning
	}
	result := nodeAt(&t.buffers, t.root, offset)
	return result.line
}

// Insert places text at offset, clamping to the end of the document. Empty
// text is a no-op and records no history. A run of inserts that each begin
// exactly where the previous one ended shares a single undo entry.
func (t *Tree) Insert(offset Offset, text []CodeUnit, suppress SuppressHistory) {
	if len(text) == 0 {
		return
	}
	// A fresh boundary (or an empty tree) opens a new undo block.
	if suppress == SuppressHistoryNo && (t.endLastInsert != offset || t.root == nil) {
		t.appendUndo(t.root, offset)
	}
	t.internalInsert(offset, text)
}

// InsertString is Insert with string conversion for this build's encoding.
func (t *Tree) InsertString(offset Offset, s string, suppress SuppressHistory) {
	t.Insert(offset, DecodeString(s), suppress)
}

// Remove deletes count code units starting at offset. Zero count or an
// empty tree is a no-op; a range past the end is clamped.
func (t *Tree) Remove(offset, count Offset, suppress SuppressHistory) {
	if count == 0 || t.root == nil {
		return
	}
	if suppress == SuppressHistoryNo {
		t.appendUndo(t.root, offset)
	}
	t.internalRemove(offset, count)
}

func (t *Tree) internalInsert(offset Offset, text []CodeUnit) {
	t.endLastInsert = offset + Offset(len(text))
	defer t.computeBufferMeta()

	if t.root == nil {
		p := t.buildPiece(text)
		t.root = insert(t.root, nodeData{piece: p}, 0)
		return
	}

	result := nodeAt(&t.buffers, t.root, offset)
	// An offset beyond the buffer snaps to the last node.
	if result.node == nil {
		var off Offset
		if t.meta.TotalContentLength != 0 {
			off = t.meta.TotalContentLength - 1
		}
		result = nodeAt(&t.buffers, t.root, off)
	}

	// Three cases: the offset is at the start boundary of the hit node, at
	// its end boundary, or strictly inside it.

	// Start boundary.
	if result.startOffset == offset {
		// If the previous piece ends at the mod-buffer cursor of the most
		// recent insert, the new text continues that run and the two
		// pieces merge into one.
		if offset != 0 {
			prev := nodeAt(&t.buffers, t.root, offset-1)
			if prev.node.piece.index == ModBuf && prev.node.piece.last == t.lastInsert {
				t.combinePieces(prev, t.buildPiece(text))
				return
			}
		}
		p := t.buildPiece(text)
		t.root = insert(t.root, nodeData{piece: p}, offset)
		return
	}

	insideNode := offset < result.startOffset+result.node.piece.length

	// End boundary.
	if !insideNode {
		// Same coalescing opportunity, against the hit node itself.
		if result.node.piece.index == ModBuf && result.node.piece.last == t.lastInsert {
			t.combinePieces(result, t.buildPiece(text))
			return
		}
		p := t.buildPiece(text)
		t.root = insert(t.root, nodeData{piece: p}, offset)
		return
	}

	// Strictly inside: split the piece at the cursor and re-insert
	// left, new, right in document order.
	oldPiece := result.node.piece
	insertPos := bufferPosition(&t.buffers, oldPiece, result.remainder)

	newPieceRight := oldPiece
	newPieceRight.first = insertPos
	newPieceRight.length = t.buffers.bufferOffset(oldPiece.index, oldPiece.last) -
		t.buffers.bufferOffset(oldPiece.index, insertPos)
	newPieceRight.newlineCount = lineFeedCount(insertPos, oldPiece.last)

	newPieceLeft := trimPieceRight(&t.buffers, oldPiece, insertPos)

	newPiece := t.buildPiece(text)

	t.root = remove(t.root, result.startOffset)

	at := result.startOffset
	t.root = insert(t.root, nodeData{piece: newPieceLeft}, at)
	at += newPieceLeft.length
	t.root = insert(t.root, nodeData{piece: newPiece}, at)
	at += newPiece.length
	t.root = insert(t.root, nodeData{piece: newPieceRight}, at)
}

func (t *Tree) internalRemove(offset, count Offset) {
	defer t.computeBufferMeta()

	first := nodeAt(&t.buffers, t.root, offset)
	last := nodeAt(&t.buffers, t.root, offset+count)
	firstNode := first.node
	lastNode := last.node

	startSplitPos := bufferPosition(&t.buffers, firstNode.piece, first.remainder)

	// Simple case: the whole range lives inside one piece.
	if firstNode == lastNode {
		endSplitPos := bufferPosition(&t.buffers, firstNode.piece, last.remainder)

		if first.startOffset == offset {
			// Drop the whole piece.
			if count == firstNode.piece.length {
				t.root = remove(t.root, first.startOffset)
				return
			}
			// Trim from the left.
			newPiece := trimPieceLeft(&t.buffers, firstNode.piece, endSplitPos)
			t.root = insert(remove(t.root, first.startOffset), nodeData{piece: newPiece}, first.startOffset)
			return
		}

		// Trim from the right.
		if first.startOffset+firstNode.piece.length == offset+count {
			newPiece := trimPieceRight(&t.buffers, firstNode.piece, startSplitPos)
			t.root = insert(remove(t.root, first.startOffset), nodeData{piece: newPiece}, first.startOffset)
			return
		}

		// The range is in the middle: split into two trimmed pieces.
		// Inserting right before left at the same offset leaves left on
		// the left, since equal-offset inserts land to the right.
		left, right := shrinkPiece(&t.buffers, firstNode.piece, startSplitPos, endSplitPos)
		t.root = remove(t.root, first.startOffset)
		t.root = insert(t.root, nodeData{piece: right}, first.startOffset)
		t.root = insert(t.root, nodeData{piece: left}, first.startOffset)
		return
	}

	// The range spans pieces: trim the first piece's right side and the
	// last piece's left side, drop everything in between, then re-insert
	// the survivors.
	newFirst := trimPieceRight(&t.buffers, firstNode.piece, startSplitPos)
	if lastNode == nil {
		t.removeNodeRange(first, count)
	} else {
		endSplitPos := bufferPosition(&t.buffers, lastNode.piece, last.remainder)
		newLast := trimPieceLeft(&t.buffers, lastNode.piece, endSplitPos)
		t.removeNodeRange(first, count)
		// When the range ends exactly at a piece boundary, 'last' itself
		// was untouched; a zero remainder identifies that and avoids
		// re-inserting a duplicate.
		if last.remainder != 0 && newLast.length != 0 {
			t.root = insert(t.root, nodeData{piece: newLast}, first.startOffset)
		}
	}
	if newFirst.length != 0 {
		t.root = insert(t.root, nodeData{piece: newFirst}, first.startOffset)
	}
}

// removeNodeRange deletes pieces starting at first until the adjusted
// length is covered. The length is first extended to the whole of the first
// piece, since the caller re-inserts the trimmed remnants afterward.
func (t *Tree) removeNodeRange(first nodePosition, length Offset) {
	total := first.node.piece.length
	length = length - (total - first.remainder) + total

	var deleted Offset
	deleteAt := first.startOffset
	for deleted < length && first.node != nil {
		deleted += first.node.piece.length
		t.root = remove(t.root, deleteAt)
		first = nodeAt(&t.buffers, t.root, deleteAt)
	}
}

// buildPiece appends text to the mod buffer, extends the buffer's line
// starts, and returns the piece spanning the appended run. The tree's
// lastInsert cursor advances to the end of the run.
func (t *Tree) buildPiece(text []CodeUnit) piece {
	mod := &t.buffers.modBuffer
	startOffset := Offset(len(mod.text))
	t.scratchStarts = populateLineStarts(t.scratchStarts[:0], text)
	start := t.lastInsert

	for i := range t.scratchStarts {
		t.scratchStarts[i] += startOffset
	}
	// The leading 0 every line-starts slice carries is already present in
	// the mod buffer.
	mod.lineStarts = append(mod.lineStarts, t.scratchStarts[1:]...)
	mod.text = append(mod.text, text...)

	endOffset := Offset(len(mod.text))
	endIndex := Line(len(mod.lineStarts) - 1)
	endPos := BufferCursor{
		Line:   endIndex,
		Column: Column(endOffset - mod.lineStarts[endIndex]),
	}
	p := piece{
		index:        ModBuf,
		first:        start,
		last:         endPos,
		length:       endOffset - startOffset,
		newlineCount: lineFeedCount(start, endPos),
	}
	t.lastInsert = endPos
	return p
}

// combinePieces merges a freshly built mod-buffer piece into the existing
// piece that precedes it. Valid only when the existing piece also lives in
// the mod buffer and ends exactly where the new piece begins.
func (t *Tree) combinePieces(existing nodePosition, newPiece piece) {
	old := existing.node.piece
	newPiece.first = old.first
	newPiece.newlineCount += old.newlineCount
	newPiece.length += old.length
	t.root = insert(remove(t.root, existing.startOffset), nodeData{piece: newPiece}, existing.startOffset)
}

// nodeAt descends from root to the piece containing off, accumulating the
// start offset and line number on the way down. An offset at or past the
// end of the document resolves to the rightmost piece with the remainder
// equal to its full length.
func nodeAt(bc *BufferCollection, n *node, off Offset) nodePosition {
	var nodeStartOffset Offset
	var newlineCount uint64
	for n != nil {
		leftLen := n.data.leftLen
		pieceLen := n.data.piece.length
		switch {
		case leftLen > off:
			n = n.left
		case leftLen+pieceLen > off:
			nodeStartOffset += leftLen
			newlineCount += uint64(n.data.leftLF)
			remainder := off - leftLen
			// bufferPosition reports a line relative to the buffer;
			// retract by the piece's first line for the in-piece count.
			pos := bufferPosition(bc, n.data.piece, remainder)
			newlineCount += uint64(pos.Line - n.data.piece.first.Line)
			return nodePosition{
				node:        &n.data,
				remainder:   remainder,
				startOffset: nodeStartOffset,
				line:        Line(newlineCount + 1),
			}
		default:
			if n.right == nil {
				// Ran off the right edge: treat as the end position of
				// the rightmost piece.
				nodeStartOffset += leftLen
				newlineCount += uint64(n.data.leftLF) + uint64(n.data.piece.newlineCount)
				return nodePosition{
					node:        &n.data,
					remainder:   pieceLen,
					startOffset: nodeStartOffset,
					line:        Line(newlineCount + 1),
				}
			}
			amount := leftLen + pieceLen
			off -= amount
			nodeStartOffset += amount
			newlineCount += uint64(n.data.leftLF) + uint64(n.data.piece.newlineCount)
			n = n.right
		}
	}
	return nodePosition{}
}

// charAt reads one code unit through the tree. Offsets at or past the end
// return the zero code unit.
func charAt(bc *BufferCollection, root *node, offset Offset) CodeUnit {
	result := nodeAt(bc, root, offset)
	if result.node == nil || result.remainder >= result.node.piece.length {
		return 0
	}
	buffer := bc.bufferAt(result.node.piece.index)
	bufOffset := bc.bufferOffset(result.node.piece.index, result.node.piece.first)
	return buffer.text[bufOffset+result.remainder]
}
