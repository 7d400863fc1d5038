package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// OpenStore builds the settings store named by cfg. The returned closer is
// never nil.
func OpenStore(cfg Settings, log zerolog.Logger) (Store, io.Closer, error) {
	if cfg.Backend == "" && cfg.Path != "" {
		cfg = SettingsFor(cfg.Path)
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemStore(), nopCloser{}, nil
	case "file":
		if cfg.Path == "" {
			return nil, nopCloser{}, fmt.Errorf("settings backend file needs a path")
		}
		s, err := OpenFileStore(cfg.Path)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, nopCloser{}, nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, nopCloser{}, fmt.Errorf("settings backend sqlite needs a path")
		}
		s, err := OpenSQLite(cfg.Path, log)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, s, nil
	}
	return nil, nopCloser{}, fmt.Errorf("unknown settings backend %q", cfg.Backend)
}

// SettingsFor picks a persistent backend from the file extension: sqlite
// for .db/.sqlite/.sqlite3, a YAML/JSON file otherwise.
func SettingsFor(path string) Settings {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return Settings{Backend: "sqlite", Path: path}
	}
	return Settings{Backend: "file", Path: path}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
