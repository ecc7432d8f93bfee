// Package config loads editor configuration and session state for the
// fredit demo editor.
//
// Configuration is a TOML file with editor and theme sections; a missing
// file is not an error and yields the defaults. Session state (last file,
// cursor position, recent files) lives in a separate JSON file that is
// queried and updated in place, so keys written by other tools survive a
// round trip.
package config
