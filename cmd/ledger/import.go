package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/cli"
	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/config"
	"github.com/Veraticus/alertledger/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a file of alerts, one per line",
		Long: `Extract and store every alert in a text file. Each non-empty line is
treated as one alert; use "-" to read from stdin.

Alerts already in the ledger are skipped. Without --strict every line is kept,
even when no amount can be found; with --strict such lines are reported and
skipped.

Examples:
  ledger import ~/Downloads/sms-export.txt
  ledger import --strict alerts.log`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("strict", false, "skip alerts with no amount instead of storing them")
	cmd.Flags().String("currency", "", "currency used when an alert names none")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	lines, err := readAlertFile(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		slog.Warn("No alerts found", "file", args[0])
		return nil
	}

	// Import defaults to lenient extraction unless --strict is passed.
	if !cmd.Flags().Changed("strict") {
		_ = cmd.Flags().Set("strict", "false")
	}
	extractor, err := extractorFromFlags(cmd)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Run the same import again; stored alerts are skipped.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	importer := &alertImporter{
		store:     store,
		extractor: extractor,
		accountID: config.Account(viper.GetViper()),
		retry:     common.DefaultRetryOptions(),
	}

	var bar *progressbar.ProgressBar
	if !noProgress {
		bar = newImportProgressBar(cmd.ErrOrStderr(), len(lines))
	}

	common.LogInfo("Importing alerts", common.Fields{
		"file":    args[0],
		"lines":   len(lines),
		"account": importer.accountID,
	})
	stats, failures, err := importer.importLines(ctx, lines, func() {
		if bar == nil {
			return
		}
		if addErr := bar.Add(1); addErr != nil {
			slog.Warn("Failed to update progress bar", "error", addErr)
		}
	})

	common.LogInfo("Import finished", common.Fields{
		"inserted":    stats.Inserted,
		"duplicates":  stats.Duplicates,
		"failed":      stats.Failed,
		"duration":    stats.Duration,
		"interrupted": handler.WasInterrupted(),
	})
	printImportSummary(cmd.OutOrStdout(), stats, failures)

	if handler.WasInterrupted() {
		return nil
	}
	return err
}

// lineFailure records an alert that could not be imported.
type lineFailure struct {
	err  error
	line int
}

// alertImporter extracts and stores alerts one line at a time.
type alertImporter struct {
	store     service.Storage
	extractor service.Extractor
	accountID string
	retry     common.RetryOptions
}

// importLines processes every line, calling progress after each. Extraction
// failures are collected and do not stop the run; storage failures that
// survive retrying do.
func (im *alertImporter) importLines(ctx context.Context, lines []string, progress func()) (service.ImportStats, []lineFailure, error) {
	start := time.Now()
	stats := service.ImportStats{Total: len(lines)}
	var failures []lineFailure

	finish := func() service.ImportStats {
		stats.Duration = time.Since(start)
		return stats
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return finish(), failures, err
		}

		stmt, err := im.extractor.Extract(line)
		if err != nil {
			stats.Failed++
			failures = append(failures, lineFailure{line: i + 1, err: err})
			common.LogDebug("Skipping alert", common.Fields{"line": i + 1, "error": err})
			if progress != nil {
				progress()
			}
			continue
		}
		prepareForSave(stmt, line)

		var inserted bool
		err = common.WithRetry(ctx, func() error {
			var saveErr error
			inserted, saveErr = im.store.SaveStatement(ctx, im.accountID, stmt)
			return saveErr
		}, im.retry)
		if err != nil {
			common.LogError(err, "Failed to save alert", common.Fields{"line": i + 1, "account": im.accountID})
			stats.Failed++
			failures = append(failures, lineFailure{line: i + 1, err: err})
			return finish(), failures, fmt.Errorf("failed to save alert on line %d: %w", i+1, err)
		}

		if inserted {
			stats.Inserted++
		} else {
			stats.Duplicates++
		}
		if progress != nil {
			progress()
		}
	}

	return finish(), failures, nil
}

// readAlertFile returns the non-empty lines of path, or of stdin for "-".
func readAlertFile(stdin io.Reader, path string) ([]string, error) {
	if path == "-" {
		return readAlertLines(stdin)
	}

	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer func() { _ = f.Close() }()

	return readAlertLines(f)
}

func readAlertLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}
	return lines, nil
}

func newImportProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing alerts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func printImportSummary(w io.Writer, stats service.ImportStats, failures []lineFailure) {
	summary := fmt.Sprintf("Alerts:     %d\nInserted:   %d\nDuplicates: %d\nFailed:     %d\nDuration:   %s",
		stats.Total, stats.Inserted, stats.Duplicates, stats.Failed, stats.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, cli.RenderBox("Import complete", summary))

	for _, f := range failures {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("line %d: %v", f.line, f.err)))
	}
}
