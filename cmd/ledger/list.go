package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/cli"
	"github.com/Veraticus/alertledger/internal/config"
)

func listCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored statements, newest first",
		Long: `List statements one page at a time, newest first.

Each page ends with a cursor; pass it to --cursor to fetch the next page.
Filters apply to the transaction date and amount and may be combined.

Examples:
  ledger list --direction debit --min 500
  ledger list --from 2025-09-01 --to 2025-09-30 --limit 50
  ledger list --cursor MjAyNS0wOS0xMlQxMDowMDowMC4wMDBafDAxOTk...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, filters)
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().Int("limit", 0, "statements per page (default: pagination.default_limit)")
	cmd.Flags().String("cursor", "", "cursor returned by the previous page")
	cmd.Flags().Bool("json", false, "print the page as JSON")

	return cmd
}

func runList(cmd *cobra.Command, filters filterFlags) error {
	limit, _ := cmd.Flags().GetInt("limit")
	cursor, _ := cmd.Flags().GetString("cursor")
	asJSON, _ := cmd.Flags().GetBool("json")

	opts, err := config.ExtractionOptions(viper.GetViper())
	if err != nil {
		return err
	}
	filter, err := filters.parseFilter(opts.Location)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	page, err := store.ListStatements(ctx, config.Account(viper.GetViper()), filter, cursor, limit)
	if err != nil {
		return fmt.Errorf("failed to list statements: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if len(page.Statements) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No statements found"))
		return nil
	}

	fmt.Fprintln(out, cli.RenderStatementTable(page.Statements))
	if page.HasMore() {
		fmt.Fprintln(out, cli.FormatInfo("Next page: --cursor "+page.NextCursor))
	}
	return nil
}
