package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration loading.
var (
	ErrInvalidTabWidth = errors.New("tab width must be between 1 and 16")
	ErrInvalidColor    = errors.New("invalid theme color")
)

// Config is the root configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Theme  ThemeConfig  `toml:"theme"`
}

// EditorConfig holds editing behavior settings.
type EditorConfig struct {
	TabWidth    int  `toml:"tab_width"`
	LineNumbers bool `toml:"line_numbers"`
	ShowCRLF    bool `toml:"show_crlf"`
}

// ThemeConfig holds display colors as "#rrggbb" hex strings.
type ThemeConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Gutter     string `toml:"gutter"`
	StatusFg   string `toml:"status_fg"`
	StatusBg   string `toml:"status_bg"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:    4,
			LineNumbers: true,
			ShowCRLF:    false,
		},
		Theme: ThemeConfig{
			Foreground: "#d8dee9",
			Background: "#2e3440",
			Gutter:     "#4c566a",
			StatusFg:   "#2e3440",
			StatusBg:   "#88c0d0",
		},
	}
}

// Load reads TOML configuration from path, applied over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return ErrInvalidTabWidth
	}
	for _, hex := range []string{
		c.Theme.Foreground,
		c.Theme.Background,
		c.Theme.Gutter,
		c.Theme.StatusFg,
		c.Theme.StatusBg,
	} {
		if _, _, _, err := RGB(hex); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
		}
	}
	return nil
}

// RGB parses a "#rrggbb" hex color into its 8-bit channels.
func RGB(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r8, g8, b8 := c.RGB255()
	return r8, g8, b8, nil
}
