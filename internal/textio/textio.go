package textio

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/piecetree"
)

// Encoding identifies the on-disk encoding a document was loaded with.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingLatin1
)

// String returns a display name for the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	case EncodingLatin1:
		return "latin-1"
	default:
		return "utf-8"
	}
}

// LineEnding is the dominant line-ending style of a document.
type LineEnding uint8

const (
	LineEndingLF LineEnding = iota
	LineEndingCRLF
)

// String returns a display name for the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "crlf"
	}
	return "lf"
}

// Document is file content ready to seed a piece tree. The text is UTF-8
// regardless of the on-disk encoding; line endings are preserved verbatim.
type Document struct {
	Path       string
	Encoding   Encoding
	LineEnding LineEnding

	text string
}

// chunkSize is the target original-buffer size when seeding the tree.
// Splitting at line boundaries keeps early line queries from scanning one
// huge piece.
const chunkSize = 64 * 1024

// LoadFile reads and decodes the file at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(path, data)
}

func decode(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path}

	var dec *encoding.Decoder
	switch {
	case bytes.HasPrefix(data, []byte{0xff, 0xfe}):
		doc.Encoding = EncodingUTF16LE
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, []byte{0xfe, 0xff}):
		doc.Encoding = EncodingUTF16BE
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case utf8.Valid(data):
		doc.Encoding = EncodingUTF8
		data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	default:
		doc.Encoding = EncodingLatin1
		dec = charmap.ISO8859_1.NewDecoder()
	}

	if dec != nil {
		decoded, _, err := transform.Bytes(dec, data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s as %s: %w", path, doc.Encoding, err)
		}
		data = decoded
	}

	doc.text = string(data)
	doc.LineEnding = detectLineEnding(doc.text)
	return doc, nil
}

// detectLineEnding picks the style used by the majority of line breaks.
func detectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > lf {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// Text returns the decoded content.
func (d *Document) Text() string {
	return d.text
}

// NewTree seeds a piece tree with the document content, split into
// line-aligned original buffers.
func (d *Document) NewTree() *piecetree.Tree {
	var b piecetree.TreeBuilder
	text := d.text
	for len(text) > chunkSize {
		cut := chunkSize
		if i := strings.LastIndexByte(text[:cut], '\n'); i >= 0 {
			cut = i + 1
		}
		b.AcceptString(text[:cut])
		text = text[cut:]
	}
	b.AcceptString(text)
	return b.Create()
}

// SaveFile writes text to path in the given encoding.
func SaveFile(path, text string, enc Encoding) error {
	data := []byte(text)

	var e *encoding.Encoder
	switch enc {
	case EncodingUTF16LE:
		e = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewEncoder()
	case EncodingUTF16BE:
		e = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewEncoder()
	case EncodingLatin1:
		e = charmap.ISO8859_1.NewEncoder()
	}
	if e != nil {
		encoded, _, err := transform.Bytes(e, data)
		if err != nil {
			return fmt.Errorf("encoding %s as %s: %w", path, enc, err)
		}
		data = encoded
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
