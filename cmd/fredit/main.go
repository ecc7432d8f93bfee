// Command fredit is a small terminal editor built on the piece-tree
// buffer. It exists to exercise the whole stack end to end: config,
// file IO, Lua init scripts, and the editing surface itself.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/piecetree"
	"github.com/dshills/piecetree/internal/config"
	"github.com/dshills/piecetree/internal/script"
	"github.com/dshills/piecetree/internal/textio"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", defaultConfigPath("config.toml"), "path to config file")
		sessionPath = flag.String("session", defaultConfigPath("session.json"), "path to session file")
		initScript  = flag.String("init", defaultConfigPath("init.lua"), "path to Lua init script")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	session, err := config.OpenSession(*sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Open the named file, or fall back to the session's last file, or an
	// empty buffer.
	path := flag.Arg(0)
	if path == "" {
		path = session.LastFile()
	}

	var tree *piecetree.Tree
	var doc *textio.Document
	if path != "" {
		doc, err = textio.LoadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// A new file: start empty, save will create it.
			doc = nil
			tree = piecetree.NewTree()
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		default:
			tree = doc.NewTree()
		}
	} else {
		tree = piecetree.NewTree()
	}

	// The init script runs against the buffer before the screen opens, so
	// a broken script cannot wedge the terminal.
	if _, statErr := os.Stat(*initScript); statErr == nil {
		host := script.NewHost(tree)
		if err := host.RunFile(*initScript); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		host.Close()
	}

	ed, err := newEditor(cfg, tree, doc, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if path != "" {
		if w, werr := textio.WatchFile(path); werr == nil {
			ed.watch(w)
			defer w.Close()
		}
	}

	cursor := ed.loop()

	if path != "" {
		if err := session.SetLastFile(path, uint64(cursor)); err == nil {
			_ = session.Save()
		}
	}
	return 0
}

// defaultConfigPath resolves a file under the user config directory,
// falling back to the working directory when none exists.
func defaultConfigPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "fredit", name)
}
