package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type baseDirs struct {
	config string
	state  string
	data   string
}

// resolveDirs follows the XDG base directory layout.
func resolveDirs() (baseDirs, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return baseDirs{}, fmt.Errorf("resolve home directory: %w", err)
	}

	return baseDirs{
		config: filepath.Join(xdgDir("XDG_CONFIG_HOME", homeDir, ".config"), AppName),
		state:  filepath.Join(xdgDir("XDG_STATE_HOME", homeDir, ".local", "state"), AppName),
		data:   filepath.Join(xdgDir("XDG_DATA_HOME", homeDir, ".local", "share"), AppName),
	}, nil
}

func xdgDir(env, homeDir string, fallback ...string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}
