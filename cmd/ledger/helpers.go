package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/config"
	"github.com/Veraticus/alertledger/internal/extract"
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/storage"
)

// openStorage opens the configured database and brings its schema up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	limits, err := config.Limits(viper.GetViper())
	if err != nil {
		return nil, err
	}

	dbPath := config.DatabasePath(viper.GetViper())
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store.SetLimits(limits)

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	common.LogDebug("Opened database", common.Fields{"path": dbPath, "limit_default": limits.Default, "limit_max": limits.Max})
	return store, nil
}

// extractorFromFlags builds an extractor from configuration, letting the
// --strict and --currency flags override it when they were given.
func extractorFromFlags(cmd *cobra.Command) (*extract.Extractor, error) {
	opts, err := config.ExtractionOptions(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		opts.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if f := cmd.Flags().Lookup("currency"); f != nil && f.Changed {
		currency, _ := cmd.Flags().GetString("currency")
		opts.DefaultCurrency = strings.ToUpper(strings.TrimSpace(currency))
	}
	if f := cmd.Flags().Lookup("raw"); f != nil && f.Changed {
		opts.IncludeRawText, _ = cmd.Flags().GetBool("raw")
	}

	return extract.New(opts), nil
}

// prepareForSave fills the raw text storage requires when extraction was
// configured to leave it off.
func prepareForSave(stmt *model.Statement, text string) {
	if stmt.RawText == "" {
		stmt.RawText = extract.NormalizeWhitespace(text)
	}
	stmt.Source = model.SourceAlert
}

// filterFlags holds the raw listing criteria as typed on the command line.
type filterFlags struct {
	direction string
	from      string
	to        string
	min       string
	max       string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.direction, "direction", "", "only debit or credit statements")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest transaction date (2006-01-02 or RFC3339)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest transaction date (2006-01-02 or RFC3339)")
	cmd.Flags().StringVar(&f.min, "min", "", "minimum amount")
	cmd.Flags().StringVar(&f.max, "max", "", "maximum amount")
}

// parseFilter validates the flags and turns them into a model.Filter.
// Bad input is reported as a UserError.
func (f filterFlags) parseFilter(loc *time.Location) (model.Filter, error) {
	var filter model.Filter

	if f.direction != "" {
		d, err := model.ParseDirection(strings.ToLower(strings.TrimSpace(f.direction)))
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("--direction must be debit or credit, got %q", f.direction), err)
		}
		filter.Direction = &d
	}

	if f.from != "" {
		from, err := parseDateFlag(f.from, loc, false)
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("--from %q is not a date", f.from), err)
		}
		filter.DateFrom = &from
	}
	if f.to != "" {
		to, err := parseDateFlag(f.to, loc, true)
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("--to %q is not a date", f.to), err)
		}
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return filter, common.NewUserError("--from must not be after --to", common.ErrInvalidInput)
	}

	if f.min != "" {
		amount, err := parseAmountFlag(f.min)
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("--min %q is not an amount", f.min), err)
		}
		filter.AmountMin = &amount
	}
	if f.max != "" {
		amount, err := parseAmountFlag(f.max)
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("--max %q is not an amount", f.max), err)
		}
		filter.AmountMax = &amount
	}

	return filter, nil
}

// parseDateFlag accepts a calendar date or an RFC3339 timestamp. A bare
// date used as an upper bound covers the whole day.
func parseDateFlag(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, nil
}

func parseAmountFlag(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount", common.ErrInvalidInput)
	}
	return amount, nil
}
