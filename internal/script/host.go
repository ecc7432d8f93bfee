package script

import (
	"fmt"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/piecetree"
)

// Host binds a tree to a Lua state, exposing the buffer surface as a
// global `buf` table.
type Host struct {
	id    uuid.UUID
	state *lua.LState
	tree  *piecetree.Tree
}

// NewHost creates a Lua host around the tree. Close must be called when
// the host is no longer needed.
func NewHost(tree *piecetree.Tree) *Host {
	h := &Host{
		id:    uuid.New(),
		state: lua.NewState(),
		tree:  tree,
	}
	h.register()
	return h
}

// ID returns the host's identity, used to tag script errors.
func (h *Host) ID() string {
	return h.id.String()
}

// RunScript executes Lua source against the buffer.
func (h *Host) RunScript(src string) error {
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("script host %s: %w", h.id, err)
	}
	return nil
}

// RunFile executes a Lua file against the buffer.
func (h *Host) RunFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("script host %s: running %s: %w", h.id, path, err)
	}
	return nil
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.state.Close()
}

func (h *Host) register() {
	funcs := map[string]lua.LGFunction{
		"insert":     h.luaInsert,
		"remove":     h.luaRemove,
		"undo":       h.luaUndo,
		"redo":       h.luaRedo,
		"line":       h.luaLine,
		"line_count": h.luaLineCount,
		"len":        h.luaLen,
		"text":       h.luaText,
	}
	mod := h.state.SetFuncs(h.state.NewTable(), funcs)
	h.state.SetGlobal("buf", mod)
}

// checkOffset reads a non-negative integer argument as a tree offset.
func checkOffset(L *lua.LState, n int) piecetree.Offset {
	v := L.CheckInt64(n)
	if v < 0 {
		v = 0
	}
	return piecetree.Offset(v)
}

func (h *Host) luaInsert(L *lua.LState) int {
	off := checkOffset(L, 1)
	text := L.CheckString(2)
	h.tree.InsertString(off, text, piecetree.SuppressHistoryNo)
	return 0
}

func (h *Host) luaRemove(L *lua.LState) int {
	off := checkOffset(L, 1)
	count := checkOffset(L, 2)
	h.tree.Remove(off, count, piecetree.SuppressHistoryNo)
	return 0
}

func (h *Host) luaUndo(L *lua.LState) int {
	res := h.tree.TryUndo(0)
	L.Push(lua.LBool(res.Success))
	return 1
}

func (h *Host) luaRedo(L *lua.LState) int {
	res := h.tree.TryRedo(0)
	L.Push(lua.LBool(res.Success))
	return 1
}

func (h *Host) luaLine(L *lua.LState) int {
	n := L.CheckInt64(1)
	if n < 0 {
		n = 0
	}
	content, _ := h.tree.LineContentCRLF(piecetree.Line(n))
	L.Push(lua.LString(piecetree.EncodeString(content)))
	return 1
}

func (h *Host) luaLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(h.tree.LineCount()))
	return 1
}

func (h *Host) luaLen(L *lua.LState) int {
	L.Push(lua.LNumber(h.tree.Length()))
	return 1
}

func (h *Host) luaText(L *lua.LState) int {
	L.Push(lua.LString(h.tree.TextString()))
	return 1
}
