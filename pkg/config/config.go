// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads intcode run configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config describes how a program is loaded and driven.
type Config struct {
	// Program is the program file, relative to the config file
	Program string `toml:"program"`

	// Inputs are supplied, in order, before falling back to stdin
	Inputs []int64 `toml:"inputs"`

	// ASCII exchanges input lines and output values as characters
	ASCII bool `toml:"ascii"`

	// Patch overwrites memory cells before the program starts, keyed by
	// address
	Patch map[string]int64 `toml:"patch"`

	// Peek lists addresses printed once the program stops
	Peek []int64 `toml:"peek"`

	Verbosity int `toml:"verbosity"`

	// Dir is the directory containing the config file (set at load time)
	Dir string `toml:"-"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}

	var cfg Config

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse error in %s", path)
	}

	if cfg.Dir, err = filepath.Abs(filepath.Dir(path)); err != nil {
		return nil, errors.Wrapf(err, "cannot resolve path %s", path)
	}

	if _, err := cfg.Patches(); err != nil {
		return nil, errors.Wrapf(err, "invalid patch in %s", path)
	}

	return &cfg, nil
}

// ProgramPath returns the program file as an absolute path
func (cfg *Config) ProgramPath() string {
	if cfg.Program == "" || filepath.IsAbs(cfg.Program) {
		return cfg.Program
	}

	return filepath.Join(cfg.Dir, cfg.Program)
}

// Patches returns the patch table keyed by numeric address
func (cfg *Config) Patches() (map[int64]int64, error) {
	result := make(map[int64]int64, len(cfg.Patch))

	for key, value := range cfg.Patch {
		addr, err := strconv.ParseInt(key, 10, 64)

		if err != nil {
			return nil, errors.Errorf("address %q is not an integer", key)
		}

		result[addr] = value
	}

	return result, nil
}
