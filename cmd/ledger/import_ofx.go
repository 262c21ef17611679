package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/cli"
	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/config"
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/ofx"
	"github.com/Veraticus/alertledger/internal/service"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import statements from OFX/QFX files",
		Long: `Import bank and credit card statements from OFX or QFX files.

OFX transactions carry exact amounts and dates, so they are stored with full
confidence next to the statements extracted from alerts.

Examples:
  # Import single file
  ledger import-ofx ~/Downloads/hdfc_sep_2025.ofx

  # Import every export in a directory
  ledger import-ofx ~/Downloads/*.qfx

  # Keep each OFX account separate instead of using --account
  ledger import-ofx --ofx-accounts ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("currency", "", "currency of the OFX amounts (default: extraction.default_currency)")
	cmd.Flags().Bool("ofx-accounts", false, "store statements under the account ids found in the files")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	perAccount, _ := cmd.Flags().GetBool("ofx-accounts")
	currency, _ := cmd.Flags().GetString("currency")
	if currency == "" {
		currency = viper.GetString(config.KeyDefaultCurrency)
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files",
		"file_count", len(files),
		"dry_run", dryRun)

	ctx := cmd.Context()
	stmts := parseOFXFiles(ctx, ofx.NewParser(currency), files)
	if len(stmts) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, cli.RenderStatementTable(stmts))
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d statements parsed, nothing saved", len(stmts))))
		return nil
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := saveOFXStatements(ctx, store, stmts, config.Account(viper.GetViper()), perAccount)
	if err != nil {
		return err
	}
	printImportSummary(out, stats, nil)
	return nil
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid pattern %s", pattern), err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrInvalidInput)
	}
	return files, nil
}

// parseOFXFiles parses each file in turn. Unreadable files are logged and
// skipped.
func parseOFXFiles(ctx context.Context, parser *ofx.Parser, files []string) []*model.Statement {
	var stmts []*model.Statement
	for _, path := range files {
		parsed, err := parseOFXFile(ctx, parser, path)
		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
			continue
		}
		if len(parsed.Statements) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
			continue
		}

		common.LogInfo("Processed file", common.Fields{
			"file":               filepath.Base(path),
			"transactions_found": len(parsed.Statements),
			"accounts":           parsed.Accounts,
		})
		stmts = append(stmts, parsed.Statements...)
	}
	return stmts
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) (*ofx.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

// saveOFXStatements stores stmts in one batch per account. With perAccount
// the account ids from the files are used, otherwise everything goes to
// defaultAccount.
func saveOFXStatements(ctx context.Context, store service.Storage, stmts []*model.Statement, defaultAccount string, perAccount bool) (service.ImportStats, error) {
	stats := service.ImportStats{Total: len(stmts)}

	groups := make(map[string][]*model.Statement)
	for _, stmt := range stmts {
		account := defaultAccount
		if perAccount && stmt.AccountID != "" {
			account = stmt.AccountID
		}
		groups[account] = append(groups[account], stmt)
	}

	accounts := make([]string, 0, len(groups))
	for account := range groups {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		var inserted int
		err := common.WithRetry(ctx, func() error {
			var saveErr error
			inserted, saveErr = store.SaveStatements(ctx, account, groups[account])
			return saveErr
		}, common.DefaultRetryOptions())
		if err != nil {
			return stats, fmt.Errorf("failed to save statements for account %s: %w", account, err)
		}
		stats.Inserted += inserted
		stats.Duplicates += len(groups[account]) - inserted
	}

	return stats, nil
}
