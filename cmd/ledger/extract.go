package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/cli"
	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/config"
	"github.com/Veraticus/alertledger/internal/extract"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [alert text]",
		Short: "Extract a statement from one transaction alert",
		Long: `Parse a single alert and print the structured statement.

The alert is taken from the arguments, or from stdin when none are given.

Examples:
  ledger extract "Rs.1,250.00 debited from A/c XX1234 on 12-09-25. Avl Bal Rs.23,540.50"
  pbpaste | ledger extract --json`,
		RunE: runExtract,
	}

	cmd.Flags().Bool("strict", true, "fail when no amount can be found")
	cmd.Flags().String("currency", "", "currency used when the alert names none")
	cmd.Flags().Bool("raw", false, "include the normalized alert text in the output")
	cmd.Flags().Bool("json", false, "print JSON instead of a card")
	cmd.Flags().Bool("save", false, "store the statement in the ledger")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	text, err := alertText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	extractor, err := extractorFromFlags(cmd)
	if err != nil {
		return err
	}

	stmt, err := extractor.Extract(text)
	if err != nil {
		var notFound *extract.AmountNotFoundError
		switch {
		case errors.Is(err, extract.ErrEmptyInput):
			return common.NewUserError("no alert text given", err)
		case errors.As(err, &notFound):
			return common.NewUserError("no amount found in alert (use --strict=false to keep it anyway)", err)
		default:
			return err
		}
	}

	if save {
		ctx := cmd.Context()
		store, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		includeRaw := stmt.RawText != ""
		prepareForSave(stmt, text)
		inserted, err := store.SaveStatement(ctx, config.Account(viper.GetViper()), stmt)
		if err != nil {
			return fmt.Errorf("failed to save statement: %w", err)
		}
		if !includeRaw {
			stmt.RawText = ""
		}
		common.LogInfo("Saved statement", common.Fields{
			"id":            stmt.ID,
			"inserted":      inserted,
			"date_inferred": stmt.DateInferred,
		})
		if !inserted && !asJSON {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Statement already in the ledger"))
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stmt)
	}

	fmt.Fprintln(out, cli.RenderStatement(stmt))
	return nil
}

// alertText joins the arguments, falling back to reading all of stdin.
func alertText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
