package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Editor != def.Editor || cfg.Theme != def.Theme {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.toml", `
[editor]
tab_width = 8
line_numbers = false

[theme]
foreground = "#ffffff"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.LineNumbers {
		t.Error("LineNumbers should be false")
	}
	if cfg.Theme.Foreground != "#ffffff" {
		t.Errorf("Foreground = %q, want #ffffff", cfg.Theme.Foreground)
	}
	// Untouched keys keep their defaults.
	if cfg.Theme.Background != Default().Theme.Background {
		t.Errorf("Background = %q, want default", cfg.Theme.Background)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad tab width", "[editor]\ntab_width = 0\n", ErrInvalidTabWidth},
		{"bad color", "[theme]\nforeground = \"red-ish\"\n", ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.content)
			_, err := Load(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeFile(t, "config.toml", "[editor\ntab_width = ")
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML should fail")
	}
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("#80ff00")
	if err != nil {
		t.Fatalf("RGB: %v", err)
	}
	if r != 0x80 || g != 0xff || b != 0x00 {
		t.Errorf("RGB = %d,%d,%d; want 128,255,0", r, g, b)
	}
	if _, _, _, err := RGB("nope"); err == nil {
		t.Error("bad hex should fail")
	}
}
