package piecetree

import (
	"math/rand"
	"strings"
	"testing"
)

// benchDocument builds a document of roughly size code units with newlines
// every ~60 units.
func benchDocument(size int) string {
	var sb strings.Builder
	sb.Grow(size)
	rng := rand.New(rand.NewSource(42))
	lineLen := 0
	for sb.Len() < size {
		if lineLen > 60 {
			sb.WriteByte('\n')
			lineLen = 0
			continue
		}
		sb.WriteByte(byte('a' + rng.Intn(26)))
		lineLen++
	}
	return sb.String()
}

func BenchmarkInsertSequential(b *testing.B) {
	tr := NewTree()
	text := DecodeString("x")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(tr.Length(), text, SuppressHistoryYes)
	}
}

func BenchmarkInsertScattered(b *testing.B) {
	tr := treeFromString(benchDocument(1 << 16))
	rng := rand.New(rand.NewSource(7))
	text := DecodeString("y")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(Offset(rng.Intn(int(tr.Length())+1)), text, SuppressHistoryYes)
	}
}

func BenchmarkRemoveScattered(b *testing.B) {
	doc := benchDocument(1 << 16)
	rng := rand.New(rand.NewSource(11))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		tr := treeFromString(doc)
		b.StartTimer()
		for j := 0; j < 100 && !tr.IsEmpty(); j++ {
			off := rng.Intn(int(tr.Length()))
			tr.Remove(Offset(off), 1, SuppressHistoryYes)
		}
	}
}

func BenchmarkAt(b *testing.B) {
	tr := treeFromString(benchDocument(1 << 16))
	rng := rand.New(rand.NewSource(13))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.At(Offset(rng.Intn(int(tr.Length()))))
	}
}

func BenchmarkLineContent(b *testing.B) {
	tr := treeFromString(benchDocument(1 << 16))
	lines := tr.LineCount()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.LineContent(Line(i)%lines + 1)
	}
}

func BenchmarkWalkerFull(b *testing.B) {
	tr := treeFromString(benchDocument(1 << 16))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewTreeWalker(tr, 0)
		for !w.Exhausted() {
			w.Next()
		}
	}
}

func BenchmarkUndoRedo(b *testing.B) {
	tr := NewTree()
	for i := 0; i < 1000; i++ {
		tr.InsertString(0, "chunk\n", SuppressHistoryNo)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.TryUndo(0)
		tr.TryRedo(0)
	}
}

func BenchmarkOwningSnap(b *testing.B) {
	tr := treeFromString(benchDocument(1 << 16))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.OwningSnap()
	}
}
