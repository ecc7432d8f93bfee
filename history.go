package piecetree

// Undo and redo are two LIFO stacks of retained roots. Because the tree is
// persistent, an entry is a single pointer plus the operation offset that
// produced it; restoring a state is one root assignment.

// Root is an opaque handle to a retained tree root. Holding one keeps the
// document state it describes alive.
type Root struct {
	n *node
}

type undoRedoEntry struct {
	root     *node
	opOffset Offset
}

// appendUndo records the pre-mutation root. Creating a new undo entry
// invalidates any redo entries.
func (t *Tree) appendUndo(oldRoot *node, opOffset Offset) {
	t.redoStack = nil
	t.undoStack = append(t.undoStack, undoRedoEntry{root: oldRoot, opOffset: opOffset})
}

// TryUndo restores the most recent undo entry, pushing the current state
// onto the redo stack tagged with opOffset. On an empty stack it reports
// failure with a zero offset. Any insert-coalescing run ends here.
func (t *Tree) TryUndo(opOffset Offset) UndoRedoResult {
	if len(t.undoStack) == 0 {
		return UndoRedoResult{}
	}
	t.redoStack = append(t.redoStack, undoRedoEntry{root: t.root, opOffset: opOffset})
	entry := t.undoStack[len(t.undoStack)-1]
	t.undoStack = t.undoStack[:len(t.undoStack)-1]
	t.root = entry.root
	t.computeBufferMeta()
	t.endLastInsert = sentinelOffset
	return UndoRedoResult{Success: true, OpOffset: entry.opOffset}
}

// TryRedo is the inverse of TryUndo.
func (t *Tree) TryRedo(opOffset Offset) UndoRedoResult {
	if len(t.redoStack) == 0 {
		return UndoRedoResult{}
	}
	t.undoStack = append(t.undoStack, undoRedoEntry{root: t.root, opOffset: opOffset})
	entry := t.redoStack[len(t.redoStack)-1]
	t.redoStack = t.redoStack[:len(t.redoStack)-1]
	t.root = entry.root
	t.computeBufferMeta()
	t.endLastInsert = sentinelOffset
	return UndoRedoResult{Success: true, OpOffset: entry.opOffset}
}

// CommitHead pushes the current state onto the undo stack as a manual
// checkpoint.
func (t *Tree) CommitHead(opOffset Offset) {
	t.appendUndo(t.root, opOffset)
}

// Head returns a handle to the current root.
func (t *Tree) Head() Root {
	return Root{n: t.root}
}

// SnapTo installs a previously observed root and recomputes the document
// totals. Like undo/redo, it ends any insert-coalescing run.
func (t *Tree) SnapTo(r Root) {
	t.root = r.n
	t.computeBufferMeta()
	t.endLastInsert = sentinelOffset
}

// CanUndo reports whether an undo entry is available.
func (t *Tree) CanUndo() bool {
	return len(t.undoStack) > 0
}

// CanRedo reports whether a redo entry is available.
func (t *Tree) CanRedo() bool {
	return len(t.redoStack) > 0
}
