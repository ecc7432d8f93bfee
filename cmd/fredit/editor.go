package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/piecetree"
	"github.com/dshills/piecetree/internal/config"
	"github.com/dshills/piecetree/internal/textio"
)

// editor owns the screen and the edit loop around one tree.
type editor struct {
	screen tcell.Screen
	cfg    *config.Config
	tree   *piecetree.Tree
	doc    *textio.Document
	path   string

	cursor      piecetree.Offset
	topLine     piecetree.Line
	modified    bool
	quitPending bool
	message     string
	lineEnding  string

	textStyle   tcell.Style
	gutterStyle tcell.Style
	statusStyle tcell.Style
}

func newEditor(cfg *config.Config, tree *piecetree.Tree, doc *textio.Document, path string) (*editor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	e := &editor{
		screen:     screen,
		cfg:        cfg,
		tree:       tree,
		doc:        doc,
		path:       path,
		topLine:    1,
		lineEnding: "\n",
	}
	if doc != nil && doc.LineEnding == textio.LineEndingCRLF {
		e.lineEnding = "\r\n"
	}

	e.textStyle = styleFor(cfg.Theme.Foreground, cfg.Theme.Background)
	e.gutterStyle = styleFor(cfg.Theme.Gutter, cfg.Theme.Background)
	e.statusStyle = styleFor(cfg.Theme.StatusFg, cfg.Theme.StatusBg)
	screen.SetStyle(e.textStyle)
	return e, nil
}

// styleFor builds a tcell style from two hex colors. The config layer has
// already validated them.
func styleFor(fg, bg string) tcell.Style {
	fr, fg8, fb, _ := config.RGB(fg)
	br, bg8, bb, _ := config.RGB(bg)
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fr), int32(fg8), int32(fb))).
		Background(tcell.NewRGBColor(int32(br), int32(bg8), int32(bb)))
}

// watch forwards file-change notifications into the event loop.
func (e *editor) watch(w *textio.Watcher) {
	go func() {
		for range w.Events() {
			_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()
}

// loop runs until quit and returns the final cursor offset.
func (e *editor) loop() piecetree.Offset {
	defer e.screen.Fini()
	for {
		e.draw()
		switch ev := e.screen.PollEvent().(type) {
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventInterrupt:
			e.message = "file changed on disk"
		case *tcell.EventKey:
			if !e.handleKey(ev) {
				return e.cursor
			}
		}
	}
}

func (e *editor) handleKey(ev *tcell.EventKey) bool {
	e.message = ""
	quitting := false
	defer func() {
		if !quitting {
			e.quitPending = false
		}
	}()

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		quitting = true
		if e.modified && !e.quitPending {
			e.quitPending = true
			e.message = "unsaved changes; Ctrl-Q again to quit"
			return true
		}
		return false
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyCtrlZ:
		if res := e.tree.TryUndo(e.cursor); res.Success {
			e.cursor = e.clamp(res.OpOffset)
			e.modified = true
		} else {
			e.message = "nothing to undo"
		}
	case tcell.KeyCtrlY:
		if res := e.tree.TryRedo(e.cursor); res.Success {
			e.cursor = e.clamp(res.OpOffset)
			e.modified = true
		} else {
			e.message = "nothing to redo"
		}
	case tcell.KeyRune:
		e.insert(string(ev.Rune()))
	case tcell.KeyEnter:
		e.insert(e.lineEnding)
	case tcell.KeyTab:
		e.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if prev := e.prevBoundary(e.cursor); prev != e.cursor {
			e.tree.Remove(prev, e.cursor-prev, piecetree.SuppressHistoryNo)
			e.cursor = prev
			e.modified = true
		}
	case tcell.KeyDelete:
		if next := e.nextBoundary(e.cursor); next != e.cursor {
			e.tree.Remove(e.cursor, next-e.cursor, piecetree.SuppressHistoryNo)
			e.modified = true
		}
	case tcell.KeyLeft:
		e.cursor = e.prevBoundary(e.cursor)
	case tcell.KeyRight:
		e.cursor = e.nextBoundary(e.cursor)
	case tcell.KeyUp:
		e.moveVertical(-1)
	case tcell.KeyDown:
		e.moveVertical(1)
	case tcell.KeyPgUp:
		_, h := e.screen.Size()
		e.moveVertical(-(h - 1))
	case tcell.KeyPgDn:
		_, h := e.screen.Size()
		e.moveVertical(h - 1)
	case tcell.KeyHome:
		e.cursor = e.tree.LineRange(e.cursorLine()).First
	case tcell.KeyEnd:
		e.cursor = e.tree.LineRangeCRLF(e.cursorLine()).Last
	}
	return true
}

func (e *editor) insert(s string) {
	e.tree.InsertString(e.cursor, s, piecetree.SuppressHistoryNo)
	e.cursor += piecetree.Offset(len(s))
	e.modified = true
}

func (e *editor) save() {
	if e.path == "" {
		e.message = "no file name"
		return
	}
	enc := textio.EncodingUTF8
	if e.doc != nil {
		enc = e.doc.Encoding
	}
	if err := textio.SaveFile(e.path, e.tree.TextString(), enc); err != nil {
		e.message = err.Error()
		return
	}
	e.modified = false
	e.message = "saved"
}

func (e *editor) clamp(off piecetree.Offset) piecetree.Offset {
	if l := e.tree.Length(); off > l {
		return l
	}
	return off
}

func (e *editor) cursorLine() piecetree.Line {
	return e.tree.LineAt(e.cursor)
}

// prevBoundary steps back to the previous rune start.
func (e *editor) prevBoundary(off piecetree.Offset) piecetree.Offset {
	if off == 0 {
		return 0
	}
	off--
	for off > 0 && e.tree.At(off)&0xc0 == 0x80 {
		off--
	}
	return off
}

// nextBoundary steps forward to the next rune start.
func (e *editor) nextBoundary(off piecetree.Offset) piecetree.Offset {
	length := e.tree.Length()
	if off >= length {
		return length
	}
	off++
	for off < length && e.tree.At(off)&0xc0 == 0x80 {
		off++
	}
	return off
}

// moveVertical moves the cursor by delta lines, keeping the code-unit
// column where the target line allows.
func (e *editor) moveVertical(delta int) {
	line := e.cursorLine()
	col := e.cursor - e.tree.LineRange(line).First

	target := int(line) + delta
	if target < 1 {
		target = 1
	}
	if last := int(e.tree.LineCount()); target > last {
		target = last
	}
	e.cursor = e.tree.OffsetAt(piecetree.Line(target), piecetree.Column(col))
}

func (e *editor) draw() {
	e.screen.Clear()
	width, height := e.screen.Size()
	if height < 2 {
		e.screen.Show()
		return
	}
	visible := piecetree.Line(height - 1)

	// Keep the cursor line on screen.
	cursLine := e.cursorLine()
	if cursLine < e.topLine {
		e.topLine = cursLine
	}
	if cursLine >= e.topLine+visible {
		e.topLine = cursLine - visible + 1
	}

	gutterW := 0
	if e.cfg.Editor.LineNumbers {
		gutterW = len(fmt.Sprintf("%d", e.tree.LineCount())) + 1
	}

	lineCount := e.tree.LineCount()
	for row := 0; row < height-1; row++ {
		line := e.topLine + piecetree.Line(row)
		if line > lineCount {
			break
		}
		if gutterW > 0 {
			num := fmt.Sprintf("%*d ", gutterW-1, line)
			e.drawText(0, row, num, e.gutterStyle, gutterW)
		}
		content, _ := e.tree.LineContentCRLF(line)
		text := e.expandTabs(piecetree.EncodeString(content))
		if e.cfg.Editor.ShowCRLF && e.lineTerminatedByCRLF(line) {
			text += "␍␊"
		}
		e.drawText(gutterW, row, text, e.textStyle, width-gutterW)
	}

	e.drawStatus(width, height)

	// Cursor cell: width of the expanded line prefix before the cursor.
	lineFirst := e.tree.LineRange(cursLine).First
	prefixLen := e.cursor - lineFirst
	prefix := piecetree.EncodeString(e.tree.Substr(lineFirst, prefixLen))
	x := gutterW + uniseg.StringWidth(e.expandTabs(prefix))
	e.screen.ShowCursor(x, int(cursLine-e.topLine))
	e.screen.Show()
}

func (e *editor) lineTerminatedByCRLF(line piecetree.Line) bool {
	r := e.tree.LineRangeCRLF(line)
	return e.tree.At(r.Last) == '\r' && e.tree.At(r.Last+1) == '\n'
}

// drawText renders a string of grapheme clusters, clipping at maxWidth.
func (e *editor) drawText(x, y int, s string, style tcell.Style, maxWidth int) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w > maxWidth {
			break
		}
		runes := g.Runes()
		e.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
		maxWidth -= w
	}
}

func (e *editor) drawStatus(width, height int) {
	name := e.path
	if name == "" {
		name = "[untitled]"
	}
	flag := ""
	if e.modified {
		flag = " [+]"
	}
	encoding := "utf-8"
	ending := "lf"
	if e.doc != nil {
		encoding = e.doc.Encoding.String()
		ending = e.doc.LineEnding.String()
	}
	line := e.cursorLine()
	col := e.cursor - e.tree.LineRange(line).First

	status := fmt.Sprintf(" %s%s | %s %s | Ln %d, Col %d", name, flag, encoding, ending, line, col+1)
	if e.message != "" {
		status += " | " + e.message
	}
	if pad := width - uniseg.StringWidth(status); pad > 0 {
		status += strings.Repeat(" ", pad)
	}
	e.drawText(0, height-1, status, e.statusStyle, width)
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func (e *editor) expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	tab := e.cfg.Editor.TabWidth
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tab - col%tab
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += uniseg.StringWidth(string(r))
	}
	return sb.String()
}
