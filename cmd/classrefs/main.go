package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wippyai/classrefs/scan"
)

var errFailures = errors.New("some archives or entries failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "classrefs [flags] <archive>...",
		Short: "List the parent and referenced types of every class in jar archives",
		Long: `classrefs decodes each .class entry of the given zip or jar archives and
prints one tab-separated line per class:

  archive  entry  parent  referenced...

Malformed entries are logged to stderr and skipped.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}
	addConfigFlags(rootCmd)
	rootCmd.AddCommand(newBrowseCmd())
	return rootCmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	scan.SetLogger(log)

	w := scan.NewWriter(cmd.OutOrStdout())
	w.Quote = cfg.Quote

	opts := cfg.ScanOptions()
	if cfg.Progress {
		bar := newProgressBar(cmd.ErrOrStderr(), len(args))
		opts.OnArchive = func(string) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	stats, err := scan.Run(cmd.Context(), args, opts, w.Write)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}

	if cfg.FailOnError && stats.Failed() {
		return fmt.Errorf("%w: %d of %d archives, %d of %d entries",
			errFailures, stats.FailedArchives, stats.Archives, stats.FailedItems, stats.Items)
	}
	return nil
}
