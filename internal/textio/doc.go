// Package textio moves documents between disk and the piece tree.
//
// Loading detects the file encoding (UTF-8, BOM-marked UTF-16, or Latin-1
// fallback), converts to UTF-8, and reports the dominant line-ending style
// without normalizing it — the tree's line queries are CRLF-aware. Saving
// converts back to the encoding the file was loaded with. A Watcher reports
// on-disk changes to the open file.
package textio
