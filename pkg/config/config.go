// Copyright 2026 Joel Scholl
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📁 Category represents one named group of extensions sharing a destination
type Category struct {
	Extensions  []string `yaml:"extensions"`            // File extensions belonging to this category
	Destination string   `yaml:"destination,omitempty"` // Destination directory name (defaults to the category name)
}

// 📂 Folders configures the folder-organization pass
type Folders struct {
	CompressedDestination string   `yaml:"compressed_destination,omitempty"`
	RegularDestination    string   `yaml:"regular_destination,omitempty"`
	CompressedExtensions  []string `yaml:"compressed_extensions,omitempty"`
}

// 🔧 Settings holds behavior flags for a run
type Settings struct {
	DryRun            bool     `yaml:"dry_run,omitempty"`
	CreateDirectories bool     `yaml:"create_directories,omitempty"`
	HandleConflicts   bool     `yaml:"handle_conflicts,omitempty"`
	SkipHiddenFiles   bool     `yaml:"skip_hidden_files,omitempty"`
	IgnorePatterns    []string `yaml:"ignore_patterns,omitempty"` // Glob patterns for entries to leave alone
}

// 📋 Logging configures log output
type Logging struct {
	Level        string `yaml:"level,omitempty"`
	LogToConsole bool   `yaml:"log_to_console,omitempty"`
	LogToFile    bool   `yaml:"log_to_file,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	SourceDirectory  string              `yaml:"source_directory"`
	BaseDestination  string              `yaml:"base_destination"`
	OtherDestination string              `yaml:"other_destination,omitempty"`
	FileTypes        map[string]Category `yaml:"file_types,omitempty"`
	Folders          Folders             `yaml:"folders,omitempty"`
	Settings         Settings            `yaml:"settings,omitempty"`
	Logging          Logging             `yaml:"logging,omitempty"`
}

// 🏭 Default returns a config pre-filled with the default settings. Parsers
// decode on top of it so that absent keys keep their defaults.
func Default() *Config {
	return &Config{
		OtherDestination: "Other",
		Folders: Folders{
			CompressedDestination: "Compressed Folders",
			RegularDestination:    "Folders",
			CompressedExtensions:  []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"},
		},
		Settings: Settings{
			CreateDirectories: true,
			HandleConflicts:   true,
			SkipHiddenFiles:   true,
		},
		Logging: Logging{
			Level:        "info",
			LogToConsole: true,
			LogFile:      "downsort.log",
		},
	}
}

// logLevels is the fixed set of accepted logging.level values.
var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid, normalizes extensions and
// expands paths. An unrecognized logging level is replaced with the default
// and warned about rather than rejected.
func (cfg *Config) Validate(ctx context.Context) error {
	// Check required fields
	if cfg.SourceDirectory == "" {
		return errors.Errorf("%w: source_directory is required", ErrInvalid)
	}
	if cfg.BaseDestination == "" {
		return errors.Errorf("%w: base_destination is required", ErrInvalid)
	}

	// Expand and clean paths
	var err error
	if cfg.SourceDirectory, err = expandPath(cfg.SourceDirectory); err != nil {
		return errors.Errorf("%w: source_directory: %w", ErrInvalid, err)
	}
	if cfg.BaseDestination, err = expandPath(cfg.BaseDestination); err != nil {
		return errors.Errorf("%w: base_destination: %w", ErrInvalid, err)
	}

	// Normalize category extensions. Iteration is sorted so duplicate
	// detection reports the same pair regardless of map order.
	names := make([]string, 0, len(cfg.FileTypes))
	for name := range cfg.FileTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := map[string]string{} // extension -> category that claimed it
	for _, name := range names {
		cat := cfg.FileTypes[name]
		if len(cat.Extensions) == 0 {
			return errors.Errorf("%w: category %q has no extensions", ErrInvalid, name)
		}
		for i, ext := range cat.Extensions {
			cat.Extensions[i] = NormalizeExtension(ext)
		}
		for _, ext := range cat.Extensions {
			if prev, ok := seen[ext]; ok && prev != name {
				return errors.Errorf("%w: extension %q mapped to both %q and %q", ErrInvalid, ext, prev, name)
			}
			seen[ext] = name
		}
		if cat.Destination == "" {
			cat.Destination = name
		}
		cfg.FileTypes[name] = cat
	}

	for i, ext := range cfg.Folders.CompressedExtensions {
		cfg.Folders.CompressedExtensions[i] = NormalizeExtension(ext)
	}

	// Logging level is a closed set; fall back to info with a warning.
	level := strings.ToLower(cfg.Logging.Level)
	if _, ok := logLevels[level]; !ok {
		zerolog.Ctx(ctx).Warn().Str("level", cfg.Logging.Level).Msg("unrecognized logging level, falling back to info")
		level = "info"
	}
	cfg.Logging.Level = level

	return nil
}

// 🎚️ LogLevel returns the zerolog level for the configured logging level.
func (cfg *Config) LogLevel() zerolog.Level {
	if lvl, ok := logLevels[cfg.Logging.Level]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// 📐 NormalizeExtension lowercases an extension and ensures a leading dot,
// so ".PDF", "pdf" and ".pdf" all index identically.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// expandPath expands a leading ~ and converts to an absolute, clean path.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving absolute path: %w", err)
	}
	return abs, nil
}
