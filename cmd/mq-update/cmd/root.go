package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/mq-update/internal/console"
	"github.com/oshokin/mq-update/internal/logger"
	"github.com/oshokin/mq-update/internal/service/updater"
	"github.com/oshokin/mq-update/internal/version"
)

var (
	// targetVersion pins the version to install instead of the latest release.
	targetVersion string
	// force reinstalls even when already up to date and skips the prompt.
	force bool
	// assumeYes skips the confirmation prompt without forcing a reinstall.
	assumeYes bool
	// showCurrent prints the installed version and exits.
	showCurrent bool
	// configPath points at the optional settings YAML file.
	configPath string
	// logLevel adjusts diagnostic logging on stderr.
	logLevel string

	// rootCmd updates a family binary to the requested release.
	rootCmd = &cobra.Command{
		Use:   "mq-update [binary]",
		Short: "Update mq (or another family binary) to the latest version",
		Long: "mq-update resolves the requested release from the registry, downloads the " +
			"build matching this platform, and replaces the installed binary atomically. " +
			"Without arguments it updates mq itself; a binary name selects another member " +
			"of the managed family.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			cmd.SilenceUsage = true

			return run(ctx, cmd, args)
		},
	}
)

// run wires the terminal collaborators into the pipeline and renders the report.
func run(ctx context.Context, cmd *cobra.Command, args []string) error {
	printer := console.NewPrinter(cmd.OutOrStdout())
	progress := console.NewProgressBar(cmd.OutOrStdout())

	opts := &updater.Options{
		TargetVersion: targetVersion,
		Force:         force,
		AssumeYes:     assumeYes,
		ConfigPath:    configPath,
		Progress:      progress,
		Prompt:        console.NewTerminalPrompt(),
	}
	if len(args) > 0 {
		opts.BinaryName = args[0]
	}

	if showCurrent {
		current, err := updater.CurrentVersion(ctx, opts)
		if err != nil {
			return err
		}

		printer.Boldf("Current version: %s", current)

		return nil
	}

	result, err := updater.Run(ctx, opts)

	progress.Finish()

	if err != nil {
		return err
	}

	report(printer, result)

	return nil
}

// report renders the final outcome of a pipeline run.
func report(printer *console.Printer, result *updater.Result) {
	switch result.Outcome {
	case updater.OutcomeUpToDate:
		printer.Successf("✓ %s is already up to date (version %s)", result.BinaryName, result.TargetVersion)
	case updater.OutcomeCancelled:
		// Declining the prompt is a normal ending, not a failure.
		printer.Warnf("✗ Update cancelled")
	case updater.OutcomeInstalled:
		printer.Successf("✓ Installed %s %s", result.BinaryName, result.TargetVersion)
		printer.Dimf("  %s", result.Path)
	case updater.OutcomeUpdated:
		printer.Successf("✓ Successfully updated %s to version %s", result.BinaryName, result.TargetVersion)
		printer.Dimf("  %s → %s", result.PreviousVersion, result.TargetVersion)
	}

	if result.VersionMismatch {
		if result.InstalledVersion == "" {
			printer.Warnf("⚠ Could not verify the installed version. Try running %s yourself.", result.BinaryName)
		} else {
			printer.Warnf("⚠ The binary reports version %s, expected %s. Try running %s again to verify.",
				result.InstalledVersion, result.TargetVersion, result.BinaryName)
		}
	}
}

// Execute runs the mq-update CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&targetVersion, "target", "t", "", "target version to install (defaults to latest)")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "force reinstall even if already up to date")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.Flags().BoolVar(&showCurrent, "current", false, "show the currently installed version and exit")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file (defaults to ~/.mq-update.yaml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
}
