// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by LoadFile when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// LoadFile reads a YAML config file into out. Unknown fields are rejected so
// typos surface at load time instead of silently defaulting.
func LoadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		// A file of only comments decodes to no document at all.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// SaveFile writes a YAML config file atomically. The file is staged in the
// destination directory and renamed into place so readers never observe a
// partial write.
func SaveFile(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
