package piecetree

import (
	"sync"
	"testing"
)

func TestSnapshotIsolation(t *testing.T) {
	tr := treeFromString("hello\nworld")
	owning := tr.OwningSnap()
	ref := tr.RefSnap()

	tr.InsertString(5, " there", SuppressHistoryNo)
	tr.Remove(0, 2, SuppressHistoryNo)

	// Snapshots keep observing the state at capture.
	for _, snap := range []interface {
		Text() []CodeUnit
		LineCount() Line
	}{owning, ref} {
		if got := EncodeString(snap.Text()); got != "hello\nworld" {
			t.Errorf("snapshot text = %q, want %q", got, "hello\nworld")
		}
		if got := snap.LineCount(); got != 2 {
			t.Errorf("snapshot LineCount = %d, want 2", got)
		}
	}

	if got := tr.TextString(); got != "llo there\nworld" {
		t.Errorf("tree text = %q, want %q", got, "llo there\nworld")
	}
}

func TestOwningSnapshotSurvivesModBufferGrowth(t *testing.T) {
	tr := NewTree()
	tr.InsertString(0, "abc", SuppressHistoryNo)
	snap := tr.OwningSnap()

	// Later inserts grow the tree's mod buffer; the owning snapshot holds
	// its own copy.
	for i := 0; i < 100; i++ {
		tr.InsertString(tr.Length(), "xyz", SuppressHistoryNo)
	}

	if got := EncodeString(snap.Text()); got != "abc" {
		t.Errorf("owning snapshot text = %q, want %q", got, "abc")
	}
}

func TestSnapshotQueries(t *testing.T) {
	tr := treeFromString("foo\nbar\r\nbaz")
	owning := tr.OwningSnap()
	ref := tr.RefSnap()

	type queryable interface {
		IsEmpty() bool
		Length() Offset
		LineCount() Line
		LineAt(Offset) Line
		At(Offset) CodeUnit
		LineContent(Line) []CodeUnit
		LineContentCRLF(Line) ([]CodeUnit, IncompleteCRLF)
		LineRange(Line) LineRange
		LineRangeCRLF(Line) LineRange
		LineRangeWithNewline(Line) LineRange
	}

	for _, snap := range []queryable{owning, ref} {
		if snap.IsEmpty() {
			t.Error("snapshot should not be empty")
		}
		if got := snap.Length(); got != 12 {
			t.Errorf("Length = %d, want 12", got)
		}
		if got := snap.LineCount(); got != 3 {
			t.Errorf("LineCount = %d, want 3", got)
		}
		if got := snap.LineAt(5); got != 2 {
			t.Errorf("LineAt(5) = %d, want 2", got)
		}
		if got := snap.At(4); got != 'b' {
			t.Errorf("At(4) = %q, want 'b'", got)
		}
		if got := EncodeString(snap.LineContent(2)); got != "bar\r\n" {
			t.Errorf("LineContent(2) = %q, want %q", got, "bar\r\n")
		}
		content, incomplete := snap.LineContentCRLF(2)
		if EncodeString(content) != "bar" || incomplete != IncompleteCRLFNo {
			t.Errorf("LineContentCRLF(2) = %q, %v; want %q, No", content, incomplete, "bar")
		}
		if got := snap.LineRange(2); got != (LineRange{4, 8}) {
			t.Errorf("LineRange(2) = %+v, want {4 8}", got)
		}
		if got := snap.LineRangeCRLF(2); got != (LineRange{4, 7}) {
			t.Errorf("LineRangeCRLF(2) = %+v, want {4 7}", got)
		}
		if got := snap.LineRangeWithNewline(2); got != (LineRange{4, 9}) {
			t.Errorf("LineRangeWithNewline(2) = %+v, want {4 9}", got)
		}
	}
}

func TestSnapshotAtRetainedRoot(t *testing.T) {
	tr := NewTree()
	tr.InsertString(0, "v1", SuppressHistoryNo)
	head := tr.Head()
	tr.InsertString(2, " v2", SuppressHistoryNo)

	owning := tr.OwningSnapAt(head)
	ref := tr.RefSnapAt(head)
	if got := EncodeString(owning.Text()); got != "v1" {
		t.Errorf("owning snapshot at root = %q, want %q", got, "v1")
	}
	if got := EncodeString(ref.Text()); got != "v1" {
		t.Errorf("reference snapshot at root = %q, want %q", got, "v1")
	}
	if got := owning.Length(); got != 2 {
		t.Errorf("owning Length = %d, want 2", got)
	}
}

func TestOwningSnapshotConcurrentReads(t *testing.T) {
	tr := treeFromString("shared\ncontent\nhere")
	snap := tr.OwningSnap()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := EncodeString(snap.LineContent(2)); got != "content\n" {
					t.Errorf("LineContent(2) = %q, want %q", got, "content\n")
					return
				}
			}
		}()
	}
	// The mutator keeps editing its own tree meanwhile.
	for i := 0; i < 100; i++ {
		tr.InsertString(0, "x", SuppressHistoryNo)
	}
	wg.Wait()
}

func TestSnapshotOfEmptyTree(t *testing.T) {
	tr := NewTree()
	snap := tr.OwningSnap()
	if !snap.IsEmpty() {
		t.Error("snapshot of empty tree should be empty")
	}
	if got := snap.LineAt(0); got != LineBeginning {
		t.Errorf("LineAt(0) = %d, want LineBeginning", got)
	}
	if got := snap.LineContent(1); got != nil {
		t.Errorf("LineContent(1) = %q, want nil", got)
	}
}
