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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// hclConfig mirrors Config in HCL block form. Categories become labeled
// blocks; optional attributes are pointers so absent keys keep defaults.
type hclConfig struct {
	SourceDirectory  string        `hcl:"source_directory"`
	BaseDestination  string        `hcl:"base_destination"`
	OtherDestination *string       `hcl:"other_destination,optional"`
	Categories       []hclCategory `hcl:"category,block"`
	Folders          *hclFolders   `hcl:"folders,block"`
	Settings         *hclSettings  `hcl:"settings,block"`
	Logging          *hclLogging   `hcl:"logging,block"`
}

type hclCategory struct {
	Name        string   `hcl:"name,label"`
	Extensions  []string `hcl:"extensions"`
	Destination *string  `hcl:"destination,optional"`
}

type hclFolders struct {
	CompressedDestination *string  `hcl:"compressed_destination,optional"`
	RegularDestination    *string  `hcl:"regular_destination,optional"`
	CompressedExtensions  []string `hcl:"compressed_extensions,optional"`
}

type hclSettings struct {
	DryRun            *bool    `hcl:"dry_run,optional"`
	CreateDirectories *bool    `hcl:"create_directories,optional"`
	HandleConflicts   *bool    `hcl:"handle_conflicts,optional"`
	SkipHiddenFiles   *bool    `hcl:"skip_hidden_files,optional"`
	IgnorePatterns    []string `hcl:"ignore_patterns,optional"`
}

type hclLogging struct {
	Level        *string `hcl:"level,optional"`
	LogToConsole *bool   `hcl:"log_to_console,optional"`
	LogToFile    *bool   `hcl:"log_to_file,optional"`
	LogFile      *string `hcl:"log_file,optional"`
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return raw.toConfig(), nil
}

// toConfig folds the decoded HCL onto the default configuration.
func (raw *hclConfig) toConfig() *Config {
	cfg := Default()
	cfg.SourceDirectory = raw.SourceDirectory
	cfg.BaseDestination = raw.BaseDestination
	setString(&cfg.OtherDestination, raw.OtherDestination)

	if len(raw.Categories) > 0 {
		cfg.FileTypes = make(map[string]Category, len(raw.Categories))
		for _, c := range raw.Categories {
			cat := Category{Extensions: c.Extensions}
			setString(&cat.Destination, c.Destination)
			cfg.FileTypes[c.Name] = cat
		}
	}

	if f := raw.Folders; f != nil {
		setString(&cfg.Folders.CompressedDestination, f.CompressedDestination)
		setString(&cfg.Folders.RegularDestination, f.RegularDestination)
		if len(f.CompressedExtensions) > 0 {
			cfg.Folders.CompressedExtensions = f.CompressedExtensions
		}
	}

	if s := raw.Settings; s != nil {
		setBool(&cfg.Settings.DryRun, s.DryRun)
		setBool(&cfg.Settings.CreateDirectories, s.CreateDirectories)
		setBool(&cfg.Settings.HandleConflicts, s.HandleConflicts)
		setBool(&cfg.Settings.SkipHiddenFiles, s.SkipHiddenFiles)
		cfg.Settings.IgnorePatterns = s.IgnorePatterns
	}

	if l := raw.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
		setBool(&cfg.Logging.LogToConsole, l.LogToConsole)
		setBool(&cfg.Logging.LogToFile, l.LogToFile)
		setString(&cfg.Logging.LogFile, l.LogFile)
	}

	return cfg
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
