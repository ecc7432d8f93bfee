package piecetree

import (
	"strings"
	"testing"
)

func FuzzInsert(f *testing.F) {
	f.Add("hello", 0, "x")
	f.Add("hello", 5, "x")
	f.Add("hello\nworld", 3, "line\nbreak")
	f.Add("", 0, "test")
	f.Add("a\r\nb", 1, "\r\n")

	f.Fuzz(func(t *testing.T, initial string, offset int, text string) {
		if offset < 0 {
			offset = 0
		}
		if offset > len(initial) {
			offset = len(initial)
		}

		tr := treeFromString(initial)
		tr.InsertString(Offset(offset), text, SuppressHistoryNo)

		want := initial[:offset] + text + initial[offset:]
		if got := tr.TextString(); got != want {
			t.Errorf("insert at %d: got %q, want %q", offset, got, want)
		}
		if tr.Length() != Offset(len(want)) {
			t.Errorf("Length = %d, want %d", tr.Length(), len(want))
		}
		wantLF := LFCount(strings.Count(want, "\n"))
		if tr.LineFeedCount() != wantLF {
			t.Errorf("LineFeedCount = %d, want %d", tr.LineFeedCount(), wantLF)
		}
		checkTree(t, tr)
	})
}

func FuzzRemove(f *testing.F) {
	f.Add("hello world", 0, 5)
	f.Add("hello world", 6, 5)
	f.Add("a\nb\nc", 1, 2)
	f.Add("x", 0, 1)

	f.Fuzz(func(t *testing.T, initial string, offset, count int) {
		if offset < 0 {
			offset = 0
		}
		if offset > len(initial) {
			offset = len(initial)
		}
		if count < 0 {
			count = 0
		}
		if offset+count > len(initial) {
			count = len(initial) - offset
		}

		tr := treeFromString(initial)
		tr.Remove(Offset(offset), Offset(count), SuppressHistoryNo)

		want := initial[:offset] + initial[offset+count:]
		if got := tr.TextString(); got != want {
			t.Errorf("remove [%d,%d): got %q, want %q", offset, offset+count, got, want)
		}
		checkTree(t, tr)
	})
}

// FuzzEditSequence drives a whole edit session from fuzz input and checks
// the tree against a naive string model, including undo behavior and the
// per-line round trip.
func FuzzEditSequence(f *testing.F) {
	f.Add("seed text\nwith lines\n", []byte{0, 3, 1, 2, 2})
	f.Add("", []byte{0, 0, 0, 1, 5, 2})
	f.Add("crlf\r\nfile\r\n", []byte{1, 4, 0, 9, 2, 2})

	f.Fuzz(func(t *testing.T, initial string, ops []byte) {
		tr := treeFromString(initial)
		model := initial
		var history []string

		fragments := []string{"a", "xyz", "\n", "\r\n", "word ", "b\nc"}

		for i := 0; i+1 < len(ops); i += 2 {
			arg := int(ops[i+1])
			switch ops[i] % 3 {
			case 0: // insert
				off := 0
				if len(model) > 0 {
					off = arg % (len(model) + 1)
				}
				text := fragments[arg%len(fragments)]
				history = append(history, model)
				tr.InsertString(Offset(off), text, SuppressHistoryNo)
				model = model[:off] + text + model[off:]
				// Coalesced runs share an undo entry; drop the snapshot
				// we just took if no new entry was recorded.
				if len(history) > len(tr.undoStack) {
					history = history[:len(tr.undoStack)]
				}
			case 1: // remove
				if len(model) == 0 {
					continue
				}
				off := arg % len(model)
				count := 1 + arg%(len(model)-off)
				history = append(history, model)
				tr.Remove(Offset(off), Offset(count), SuppressHistoryNo)
				model = model[:off] + model[off+count:]
			case 2: // undo
				res := tr.TryUndo(0)
				if res.Success != (len(history) > 0) {
					t.Fatalf("TryUndo success = %v with %d recorded states", res.Success, len(history))
				}
				if res.Success {
					model = history[len(history)-1]
					history = history[:len(history)-1]
				}
			}

			if got := tr.TextString(); got != model {
				t.Fatalf("op %d: tree %q, model %q", i, got, model)
			}
		}

		checkTree(t, tr)

		// Per-line round trip over the final state.
		var assembled strings.Builder
		for i := Line(1); i <= tr.LineCount(); i++ {
			assembled.Write(tr.LineContent(i))
		}
		if assembled.String() != model {
			t.Errorf("line round trip produced %q, want %q", assembled.String(), model)
		}
	})
}
