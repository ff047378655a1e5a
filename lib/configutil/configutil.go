package configutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override for a config file,
// config.json -> config.local.json
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readInto[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a json5 configuration file. If a file named
// <name>.local.<ext> sits next to it, its values are merged on top. Every key
// present in the local file wins, zero values ("", 0, false) included.
// os.ErrNotExist is returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T

	var base map[string]any
	found, err := readInto(name, &base)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	var override map[string]any
	foundLocal, err := readInto(localPath, &override)
	if err != nil {
		return out, err
	}
	if !found && !foundLocal {
		return out, os.ErrNotExist
	}

	if base == nil {
		base = map[string]any{}
	}
	if foundLocal {
		// merged on the raw documents, a struct merge would skip zero values
		err = mergo.Merge(&base, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localPath)
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return out, err
	}
	err = json5.Unmarshal(merged, &out)
	if err != nil {
		return out, fmt.Errorf("parse %s: %w", name, err)
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it walks up from the working directory
// until it finds a file matching name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}
