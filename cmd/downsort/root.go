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

package main

import (
	"context"
	"io"
	"os"

	"github.com/jescholl/downsort/pkg/classify"
	"github.com/jescholl/downsort/pkg/config"
	"github.com/jescholl/downsort/pkg/organize"
	"github.com/jescholl/downsort/pkg/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile     string
	verbose        bool
	includeFolders bool
	dryRun         bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "downsort",
		Short: "Organize a downloads directory into category folders",
		Long: `downsort scans a source directory once and moves its files and folders
into category destinations defined in a configuration file. Per-entry
errors are counted and reported; only an invalid configuration or an
unreadable source directory fails the run.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "downsort.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&includeFolders, "folders", "f", false, "include folder organization")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview moves without touching the filesystem")

	cmd.AddCommand(newWatchCmd())

	return cmd
}

// runOrganize performs one organizing pass. Exit status is zero as long as
// the pass completes, even with per-entry errors in the statistics.
func runOrganize(ctx context.Context) error {
	ctx, org, rep, err := buildOrganizer(ctx)
	if err != nil {
		return err
	}

	stats, err := org.Run(ctx)
	if err != nil {
		return err
	}

	rep.Summary(stats)
	return nil
}

// buildOrganizer loads config, wires logging and builds the organizer shared
// by the root and watch commands.
func buildOrganizer(ctx context.Context) (context.Context, *organize.Organizer, *report.Logger, error) {
	// Bootstrap logger for config loading; replaced once the config's own
	// logging section is known.
	bootLevel := zerolog.InfoLevel
	if verbose {
		bootLevel = zerolog.DebugLevel
	}
	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(bootLevel).With().Timestamp().Logger()

	cfg, err := config.Load(boot.WithContext(ctx), configFile)
	if err != nil {
		return ctx, nil, nil, errors.Errorf("loading config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	ctx = logger.WithContext(ctx)

	index, err := classify.NewIndex(cfg.FileTypes)
	if err != nil {
		return ctx, nil, nil, errors.Errorf("building extension index: %w", err)
	}

	rep := report.New(os.Stdout)

	org, err := organize.New(organize.Options{
		Config:         cfg,
		Index:          index,
		Reporter:       rep,
		IncludeFolders: includeFolders,
		DryRun:         dryRun,
	})
	if err != nil {
		return ctx, nil, nil, errors.Errorf("creating organizer: %w", err)
	}

	return ctx, org, rep, nil
}

// setupLogging configures zerolog from the config's logging section.
// --verbose overrides the configured level with debug.
func setupLogging(cfg *config.Config) (zerolog.Logger, error) {
	level := cfg.LogLevel()
	if verbose {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if cfg.Logging.LogToConsole {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if cfg.Logging.LogToFile {
		f, err := os.OpenFile(cfg.Logging.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Logger{}, errors.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger(), nil
}
