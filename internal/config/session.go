package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxRecentFiles bounds the recent-files list.
const maxRecentFiles = 10

// Session is the JSON session-state file. Reads and writes go through path
// queries against the raw document, so unknown keys written by other tools
// are preserved.
type Session struct {
	path string
	data []byte
}

// OpenSession loads session state from path. A missing file yields an
// empty session bound to the same path.
func OpenSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{path: path, data: []byte("{}")}, nil
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		// A corrupt session file is not worth failing startup over.
		data = []byte("{}")
	}
	return &Session{path: path, data: data}, nil
}

// LastFile returns the most recently edited file path.
func (s *Session) LastFile() string {
	return gjson.GetBytes(s.data, "last_file").String()
}

// CursorOffset returns the saved cursor offset for the last file.
func (s *Session) CursorOffset() uint64 {
	return gjson.GetBytes(s.data, "cursor_offset").Uint()
}

// RecentFiles returns the recent-files list, most recent first.
func (s *Session) RecentFiles() []string {
	var files []string
	for _, r := range gjson.GetBytes(s.data, "recent_files").Array() {
		files = append(files, r.String())
	}
	return files
}

// SetLastFile records the file and cursor position and promotes the file
// to the head of the recent list.
func (s *Session) SetLastFile(path string, cursorOffset uint64) error {
	data, err := sjson.SetBytes(s.data, "last_file", path)
	if err != nil {
		return err
	}
	if data, err = sjson.SetBytes(data, "cursor_offset", cursorOffset); err != nil {
		return err
	}

	recent := []string{path}
	for _, f := range s.RecentFiles() {
		if f == path {
			continue
		}
		recent = append(recent, f)
		if len(recent) == maxRecentFiles {
			break
		}
	}
	if data, err = sjson.SetBytes(data, "recent_files", recent); err != nil {
		return err
	}

	s.data = data
	return nil
}

// Save writes the session state back to its file.
func (s *Session) Save() error {
	if err := os.WriteFile(s.path, s.data, 0o644); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}
