// Package script embeds the buffer API in a Lua interpreter, for init
// scripts and editing macros.
//
// Each Host owns one Lua state and one tree. The state is not
// goroutine-safe; run all scripts from the goroutine that owns the tree.
package script
