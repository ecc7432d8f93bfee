package textio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/piecetree"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileUTF8(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("hello\nworld\n"))
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %v, want utf-8", doc.Encoding)
	}
	if doc.LineEnding != LineEndingLF {
		t.Errorf("LineEnding = %v, want lf", doc.LineEnding)
	}
	if doc.Text() != "hello\nworld\n" {
		t.Errorf("Text = %q", doc.Text())
	}
}

func TestLoadFileStripsUTF8BOM(t *testing.T) {
	path := writeFile(t, "bom.txt", []byte("\xef\xbb\xbfabc"))
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "abc" {
		t.Errorf("Text = %q, want %q", doc.Text(), "abc")
	}
}

func TestLoadFileCRLFDetection(t *testing.T) {
	path := writeFile(t, "dos.txt", []byte("a\r\nb\r\nc\n"))
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.LineEnding != LineEndingCRLF {
		t.Errorf("LineEnding = %v, want crlf", doc.LineEnding)
	}
	// Content is not normalized.
	if doc.Text() != "a\r\nb\r\nc\n" {
		t.Errorf("Text = %q", doc.Text())
	}
}

func TestLoadFileUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewEncoder()
	data, _, err := transform.Bytes(enc, []byte("héllo\n"))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "wide.txt", data)

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Encoding != EncodingUTF16LE {
		t.Errorf("Encoding = %v, want utf-16le", doc.Encoding)
	}
	if doc.Text() != "héllo\n" {
		t.Errorf("Text = %q, want %q", doc.Text(), "héllo\n")
	}
}

func TestLoadFileLatin1Fallback(t *testing.T) {
	// 0xe9 is 'é' in Latin-1 and invalid UTF-8 on its own.
	path := writeFile(t, "legacy.txt", []byte{'c', 'a', 'f', 0xe9})
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Encoding != EncodingLatin1 {
		t.Errorf("Encoding = %v, want latin-1", doc.Encoding)
	}
	if doc.Text() != "café" {
		t.Errorf("Text = %q, want %q", doc.Text(), "café")
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingUTF8, EncodingUTF16LE, EncodingUTF16BE, EncodingLatin1} {
		t.Run(enc.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.txt")
			text := "line one\nlïne two\n"
			if err := SaveFile(path, text, enc); err != nil {
				t.Fatalf("SaveFile: %v", err)
			}
			doc, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if doc.Encoding != enc {
				t.Errorf("re-detected encoding = %v, want %v", doc.Encoding, enc)
			}
			if doc.Text() != text {
				t.Errorf("Text = %q, want %q", doc.Text(), text)
			}
		})
	}
}

func TestNewTreeChunksAtLines(t *testing.T) {
	// A document bigger than one chunk must survive tree construction
	// byte for byte.
	var data []byte
	for i := 0; i < 4*1024; i++ {
		data = append(data, []byte("this is a line of filler text for the chunking test\n")...)
	}
	doc := &Document{text: string(data)}
	tr := doc.NewTree()
	if tr.TextString() != string(data) {
		t.Error("tree content diverged from document")
	}
	if tr.Length() != piecetree.Offset(len(data)) {
		t.Errorf("Length = %d, want %d", tr.Length(), len(data))
	}
}

func TestWatchFile(t *testing.T) {
	path := writeFile(t, "watched.txt", []byte("v1"))
	w, err := WatchFile(path)
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer w.Close()

	// Give the watcher goroutine a moment to start.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Error("no change notification delivered")
	}
}
