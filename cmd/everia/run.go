package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"everia/pkg/config"
	"everia/pkg/logger"
	"everia/pkg/models"
	"everia/pkg/scraper"
	"everia/pkg/ui"
)

// commandFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func commandFlags(cmd *cobra.Command, opts *rootOptions) map[string]interface{} {
	flags := make(map[string]interface{})
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		flags["output"] = opts.output
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		flags["workers"] = opts.workers
	}
	if f := cmd.Flags().Lookup("retry"); f != nil && f.Changed {
		flags["retry"] = opts.retry
	}
	if opts.logLevel != "" {
		flags["log-level"] = opts.logLevel
	}
	if cmd.Flags().Changed("quiet") {
		flags["quiet"] = opts.quiet
	}
	return flags
}

func runCrawl(cmd *cobra.Command, opts *rootOptions, rawURL string) error {
	console := ui.NewConsole(cmd.OutOrStdout(), opts.quiet)

	cfg, err := config.Load(opts.configFile, commandFlags(cmd, opts))
	if err != nil {
		console.PrintError("Failed to load configuration", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		console.PrintError("Failed to initialize logger", err)
		return err
	}
	log := logger.GetLogger()

	site, err := models.NewSite(rawURL, cfg.Output.BaseDirectory,
		models.WithWorkers(cfg.Download.Workers),
		models.WithRetry(cfg.Download.Retry),
		models.WithRetryDelay(cfg.Download.RetryDelay),
	)
	if err != nil {
		log.WithError(err).Error("Invalid listing url")
		console.PrintError("Invalid listing url", err)
		return err
	}

	console = ui.NewConsole(cmd.OutOrStdout(), cfg.Logging.Quiet)
	log.WithField("version", version).Debug("everia starting")

	s := scraper.New(site, cfg, scraper.WithConsole(console), scraper.WithLogger(log))
	summary := s.Download(cmd.Context())

	if cmd.Context().Err() != nil {
		console.PrintWarning(fmt.Sprintf("Interrupted - %d images saved to %s", summary.ImagesWritten, summary.OutputDir))
	}
	return nil
}
