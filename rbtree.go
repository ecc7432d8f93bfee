package piecetree

// Persistent red-black tree of pieces, keyed implicitly by cumulative
// code-unit offset. Nodes are immutable and shared by reference among every
// root that contains them; insert and remove allocate fresh nodes along the
// mutated path only, so retaining an old root retains an entire document
// state. Insertion is Okasaki's functional algorithm with the comparison
// rewritten against the running offset; removal is the fuse/balance variant
// (the straightforward double-black formulation does not always preserve the
// red-black invariants under structural sharing).

type nodeColor uint8

const (
	colorRed nodeColor = iota
	colorBlack
)

// nodeData is the tree payload: the piece plus the order statistics over
// the node's left subtree. The statistics are never assigned directly;
// newNode recomputes them from the actual left child every time a node is
// built, which is the sole mechanism keeping them consistent.
type nodeData struct {
	piece   piece
	leftLen Offset
	leftLF  LFCount
}

type node struct {
	color nodeColor
	left  *node
	right *node
	data  nodeData
}

// newNode builds an immutable node, recomputing the left-subtree order
// statistics from l.
func newNode(c nodeColor, l *node, data nodeData, r *node) *node {
	data.leftLen = treeLength(l)
	data.leftLF = treeLFCount(l)
	return &node{color: c, left: l, right: r, data: data}
}

// paint copies the node with a different color. Children and order
// statistics are unchanged.
func (n *node) paint(c nodeColor) *node {
	return &node{color: c, left: n.left, right: n.right, data: n.data}
}

func (n *node) isRed() bool {
	return n != nil && n.color == colorRed
}

func (n *node) isBlack() bool {
	return n != nil && n.color == colorBlack
}

// doubledLeft reports a red node whose left child is also red.
func (n *node) doubledLeft() bool {
	return n.isRed() && n.left.isRed()
}

// doubledRight reports a red node whose right child is also red.
func (n *node) doubledRight() bool {
	return n.isRed() && n.right.isRed()
}

// treeLength is the total piece length of the subtree. Only the right spine
// is walked; left totals are read from the cached statistics.
func treeLength(n *node) Offset {
	var total Offset
	for n != nil {
		total += n.data.leftLen + n.data.piece.length
		n = n.right
	}
	return total
}

// treeLFCount is the total newline count of the subtree.
func treeLFCount(n *node) LFCount {
	var total LFCount
	for n != nil {
		total += n.data.leftLF + n.data.piece.newlineCount
		n = n.right
	}
	return total
}

// insert returns a new root with data inserted at offset. An insertion at
// an existing boundary lands to the right of the incumbent: the descent
// compares with strict less-than against the end of each piece, which the
// piece-tree layer exploits to coalesce contiguous typing.
func insert(root *node, data nodeData, at Offset) *node {
	t := ins(root, data, at, 0)
	return &node{color: colorBlack, left: t.left, right: t.right, data: t.data}
}

func ins(n *node, data nodeData, at, totalOffset Offset) *node {
	if n == nil {
		return newNode(colorRed, nil, data, nil)
	}
	y := n.data
	if at < totalOffset+y.leftLen+y.piece.length {
		return balanceIns(n.color, ins(n.left, data, at, totalOffset), y, n.right)
	}
	return balanceIns(n.color, n.left, y, ins(n.right, data, at, totalOffset+y.leftLen+y.piece.length))
}

// balanceIns repairs the two red-red configurations on either side of a
// black node after a recursive insert step.
func balanceIns(c nodeColor, l *node, x nodeData, r *node) *node {
	switch {
	case c == colorBlack && l.doubledLeft():
		return newNode(colorRed,
			l.left.paint(colorBlack),
			l.data,
			newNode(colorBlack, l.right, x, r))
	case c == colorBlack && l.doubledRight():
		return newNode(colorRed,
			newNode(colorBlack, l.left, l.data, l.right.left),
			l.right.data,
			newNode(colorBlack, l.right.right, x, r))
	case c == colorBlack && r.doubledLeft():
		return newNode(colorRed,
			newNode(colorBlack, l, x, r.left.left),
			r.left.data,
			newNode(colorBlack, r.left.right, r.data, r.right))
	case c == colorBlack && r.doubledRight():
		return newNode(colorRed,
			newNode(colorBlack, l, x, r.left),
			r.data,
			r.right.paint(colorBlack))
	}
	return newNode(c, l, x, r)
}

// remove returns a new root with the piece that starts exactly at offset
// removed. The offset must be a piece boundary; the piece-tree layer only
// ever removes at boundaries it has located via nodeAt.
func remove(root *node, at Offset) *node {
	t := rem(root, at, 0)
	if t == nil {
		return nil
	}
	return &node{color: colorBlack, left: t.left, right: t.right, data: t.data}
}

func rem(n *node, at, total Offset) *node {
	if n == nil {
		return nil
	}
	y := n.data
	if at < total+y.leftLen {
		return removeLeft(n, at, total)
	}
	if at == total+y.leftLen {
		return fuse(n.left, n.right)
	}
	return removeRight(n, at, total)
}

func removeLeft(n *node, at, total Offset) *node {
	newLeft := rem(n.left, at, total)
	nn := newNode(colorRed, newLeft, n.data, n.right)
	// If the removed-from child was black its height may have shrunk.
	if n.left.isBlack() {
		return balanceLeft(nn)
	}
	return nn
}

func removeRight(n *node, at, total Offset) *node {
	y := n.data
	newRight := rem(n.right, at, total+y.leftLen+y.piece.length)
	nn := newNode(colorRed, n.left, n.data, newRight)
	if n.right.isBlack() {
		return balanceRight(nn)
	}
	return nn
}

// fuse joins two subtrees whose elements are already ordered left-to-right,
// dispatching on the root colors of the two sides.
func fuse(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	switch {
	case left.color == colorBlack && right.color == colorRed:
		return newNode(colorRed,
			fuse(left, right.left),
			right.data,
			right.right)
	case left.color == colorRed && right.color == colorBlack:
		return newNode(colorRed,
			left.left,
			left.data,
			fuse(left.right, right))
	case left.color == colorRed && right.color == colorRed:
		fused := fuse(left.right, right.left)
		if fused.isRed() {
			newLeft := newNode(colorRed, left.left, left.data, fused.left)
			newRight := newNode(colorRed, fused.right, right.data, right.right)
			return newNode(colorRed, newLeft, fused.data, newRight)
		}
		newRight := newNode(colorRed, fused, right.data, right.right)
		return newNode(colorRed, left.left, left.data, newRight)
	}
	// Both black.
	fused := fuse(left.right, right.left)
	if fused.isRed() {
		newLeft := newNode(colorBlack, left.left, left.data, fused.left)
		newRight := newNode(colorBlack, fused.right, right.data, right.right)
		return newNode(colorRed, newLeft, fused.data, newRight)
	}
	newRight := newNode(colorBlack, fused, right.data, right.right)
	return balanceLeft(newNode(colorRed, left.left, left.data, newRight))
}

// balanceNode repairs a node whose children may both be red, then falls
// through to the insert-time rebalancer.
func balanceNode(n *node) *node {
	if n.left.isRed() && n.right.isRed() {
		return newNode(colorRed,
			n.left.paint(colorBlack),
			n.data,
			n.right.paint(colorBlack))
	}
	return balanceIns(n.color, n.left, n.data, n.right)
}

// balanceLeft repairs a node whose left subtree lost a black level.
func balanceLeft(n *node) *node {
	// case: left child is red.
	if n.left.isRed() {
		return newNode(colorRed, n.left.paint(colorBlack), n.data, n.right)
	}
	// case: right child is black.
	if n.right.isBlack() {
		return balanceNode(newNode(colorBlack, n.left, n.data, n.right.paint(colorRed)))
	}
	// case: right child is red with a black left child.
	if n.right.isRed() && n.right.left.isBlack() {
		unbalanced := newNode(colorBlack,
			n.right.left.right,
			n.right.data,
			n.right.right.paint(colorRed))
		newRight := balanceNode(unbalanced)
		newLeft := newNode(colorBlack, n.left, n.data, n.right.left.left)
		return newNode(colorRed, newLeft, n.right.left.data, newRight)
	}
	return n
}

// balanceRight is the mirror of balanceLeft.
func balanceRight(n *node) *node {
	if n.right.isRed() {
		return newNode(colorRed, n.left, n.data, n.right.paint(colorBlack))
	}
	if n.left.isBlack() {
		return balanceNode(newNode(colorBlack, n.left.paint(colorRed), n.data, n.right))
	}
	if n.left.isRed() && n.left.right.isBlack() {
		unbalanced := newNode(colorBlack,
			// A red left child always has a left subtree.
			n.left.left.paint(colorRed),
			n.left.data,
			n.left.right.left)
		newLeft := balanceNode(unbalanced)
		newRight := newNode(colorBlack, n.left.right.right, n.data, n.right)
		return newNode(colorRed, newLeft, n.left.right.data, newRight)
	}
	return n
}
