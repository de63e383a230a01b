// Package config loads the optional lox.toml project file (spec.md's
// ambient stack expansion): a default entry file and backend choice, so
// `lox run` with no arguments can fall back to project defaults instead
// of only flags. Grounded on the teacher's project_manifest.go idea of
// an optional manifest, scaled down to Lox's single-binary scope.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of lox.toml.
type Config struct {
	Entry   string `toml:"entry"`
	Backend string `toml:"backend"` // "treewalk" or "vm"
}

// Load reads path if it exists. A missing file is not an error — it
// returns a zero Config and ok=false so callers fall back to flag and
// argument defaults.
func Load(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}
