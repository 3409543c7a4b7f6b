package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jescholl/downsort/pkg/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd() *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Organize new downloads in real time",
		Long: `watch monitors the source directory and organizes files as they
appear. Partially written downloads are left alone until they sit
unchanged for the settle delay. Folders are not organized in watch
mode. Stop with Ctrl-C to print the cumulative statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, org, rep, err := buildOrganizer(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(org, settle)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return w.Run(ctx)
			})

			if err := g.Wait(); err != nil {
				return err
			}

			rep.Summary(w.Stats())
			return nil
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "how long a file must sit unchanged before it is organized")

	return cmd
}
