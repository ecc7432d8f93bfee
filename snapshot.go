package piecetree

// Snapshots are read-only views pinned to a root. An OwningSnapshot copies
// the buffer collection (cloning the mod buffer) and therefore survives the
// originating tree; a ReferenceSnapshot borrows the live collection and
// must not outlive the tree or be read while the tree is mutating.

// OwningSnapshot is an immutable view that owns its buffers.
type OwningSnapshot struct {
	root    *node
	meta    BufferMeta
	buffers BufferCollection
}

// ReferenceSnapshot is an immutable view borrowing the tree's buffers.
type ReferenceSnapshot struct {
	root    *node
	meta    BufferMeta
	buffers *BufferCollection
}

// OwningSnap captures the current state as an owning snapshot.
func (t *Tree) OwningSnap() *OwningSnapshot {
	return &OwningSnapshot{
		root:    t.root,
		meta:    t.meta,
		buffers: t.buffers.clone(),
	}
}

// OwningSnapAt captures an owning snapshot of a retained root, typically
// one observed via Head before further edits.
func (t *Tree) OwningSnapAt(r Root) *OwningSnapshot {
	s := &OwningSnapshot{
		root:    r.n,
		buffers: t.buffers.clone(),
	}
	s.meta.LFCount = treeLFCount(r.n)
	s.meta.TotalContentLength = treeLength(r.n)
	return s
}

// RefSnap captures the current state as a referencing snapshot.
func (t *Tree) RefSnap() *ReferenceSnapshot {
	return &ReferenceSnapshot{
		root:    t.root,
		meta:    t.meta,
		buffers: &t.buffers,
	}
}

// RefSnapAt captures a referencing snapshot of a retained root.
func (t *Tree) RefSnapAt(r Root) *ReferenceSnapshot {
	s := &ReferenceSnapshot{
		root:    r.n,
		buffers: &t.buffers,
	}
	s.meta.LFCount = treeLFCount(r.n)
	s.meta.TotalContentLength = treeLength(r.n)
	return s
}

// IsEmpty reports whether the snapshot has no content.
func (s *OwningSnapshot) IsEmpty() bool {
	return s.meta.TotalContentLength == 0
}

// Length returns the snapshot's total length in code units.
func (s *OwningSnapshot) Length() Offset {
	return s.meta.TotalContentLength
}

// LineCount returns the snapshot's line count.
func (s *OwningSnapshot) LineCount() Line {
	return Line(s.meta.LFCount) + 1
}

// LineAt returns the 1-based line containing offset.
func (s *OwningSnapshot) LineAt(offset Offset) Line {
	if s.IsEmpty() {
		return LineBeginning
	}
	return nodeAt(&s.buffers, s.root, offset).line
}

// At returns the code unit at offset, or 0 past the end.
func (s *OwningSnapshot) At(offset Offset) CodeUnit {
	return charAt(&s.buffers, s.root, offset)
}

// LineContent returns the line's content including a trailing '\n'.
func (s *OwningSnapshot) LineContent(line Line) []CodeUnit {
	if line == LineIndexBeginning {
		return nil
	}
	return assembleLine(&s.buffers, s.root, s.meta, line)
}

// LineContentCRLF returns the line excluding its "\r\n" or '\n' terminator.
func (s *OwningSnapshot) LineContentCRLF(line Line) ([]CodeUnit, IncompleteCRLF) {
	if line == LineIndexBeginning {
		return nil, IncompleteCRLFNo
	}
	return assembleLineCRLF(&s.buffers, s.root, s.meta, line)
}

// LineRange returns [first, last) stopping before the '\n'.
func (s *OwningSnapshot) LineRange(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &s.buffers, s.root, line, accumulateValue)
	lineStart(&r.Last, &s.buffers, s.root, line+1, accumulateValueNoLF)
	return r
}

// LineRangeCRLF is LineRange retracted past a terminating "\r\n".
func (s *OwningSnapshot) LineRangeCRLF(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &s.buffers, s.root, line, accumulateValue)
	lineEndCRLF(&r.Last, &s.buffers, s.root, s.root, line+1)
	return r
}

// LineRangeWithNewline returns [first, last) including the '\n'.
func (s *OwningSnapshot) LineRangeWithNewline(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, &s.buffers, s.root, line, accumulateValue)
	lineStart(&r.Last, &s.buffers, s.root, line+1, accumulateValue)
	return r
}

// Text returns the snapshot's entire content.
func (s *OwningSnapshot) Text() []CodeUnit {
	return collectText(&s.buffers, s.root, s.meta)
}

func (s *OwningSnapshot) walkerParts() (*BufferCollection, *node, BufferMeta) {
	return &s.buffers, s.root, s.meta
}

// IsEmpty reports whether the snapshot has no content.
func (s *ReferenceSnapshot) IsEmpty() bool {
	return s.meta.TotalContentLength == 0
}

// Length returns the snapshot's total length in code units.
func (s *ReferenceSnapshot) Length() Offset {
	return s.meta.TotalContentLength
}

// LineCount returns the snapshot's line count.
func (s *ReferenceSnapshot) LineCount() Line {
	return Line(s.meta.LFCount) + 1
}

// LineAt returns the 1-based line containing offset.
func (s *ReferenceSnapshot) LineAt(offset Offset) Line {
	if s.IsEmpty() {
		return LineBeginning
	}
	return nodeAt(s.buffers, s.root, offset).line
}

// At returns the code unit at offset, or 0 past the end.
func (s *ReferenceSnapshot) At(offset Offset) CodeUnit {
	return charAt(s.buffers, s.root, offset)
}

// LineContent returns the line's content including a trailing '\n'.
func (s *ReferenceSnapshot) LineContent(line Line) []CodeUnit {
	if line == LineIndexBeginning {
		return nil
	}
	return assembleLine(s.buffers, s.root, s.meta, line)
}

// LineContentCRLF returns the line excluding its "\r\n" or '\n' terminator.
func (s *ReferenceSnapshot) LineContentCRLF(line Line) ([]CodeUnit, IncompleteCRLF) {
	if line == LineIndexBeginning {
		return nil, IncompleteCRLFNo
	}
	return assembleLineCRLF(s.buffers, s.root, s.meta, line)
}

// LineRange returns [first, last) stopping before the '\n'.
func (s *ReferenceSnapshot) LineRange(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, s.buffers, s.root, line, accumulateValue)
	lineStart(&r.Last, s.buffers, s.root, line+1, accumulateValueNoLF)
	return r
}

// LineRangeCRLF is LineRange retracted past a terminating "\r\n".
func (s *ReferenceSnapshot) LineRangeCRLF(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, s.buffers, s.root, line, accumulateValue)
	lineEndCRLF(&r.Last, s.buffers, s.root, s.root, line+1)
	return r
}

// LineRangeWithNewline returns [first, last) including the '\n'.
func (s *ReferenceSnapshot) LineRangeWithNewline(line Line) LineRange {
	var r LineRange
	if line == LineIndexBeginning {
		return r
	}
	lineStart(&r.First, s.buffers, s.root, line, accumulateValue)
	lineStart(&r.Last, s.buffers, s.root, line+1, accumulateValue)
	return r
}

// Text returns the snapshot's entire content.
func (s *ReferenceSnapshot) Text() []CodeUnit {
	return collectText(s.buffers, s.root, s.meta)
}

func (s *ReferenceSnapshot) walkerParts() (*BufferCollection, *node, BufferMeta) {
	return s.buffers, s.root, s.meta
}

func (t *Tree) walkerParts() (*BufferCollection, *node, BufferMeta) {
	return &t.buffers, t.root, t.meta
}
