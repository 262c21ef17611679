package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for extraction.timezone

	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/extract"
	"github.com/Veraticus/alertledger/internal/pagination"
)

// Configuration keys.
const (
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyDatabasePath    = "database.path"
	KeyStrict          = "extraction.strict"
	KeyDefaultCurrency = "extraction.default_currency"
	KeyIncludeRawText  = "extraction.include_raw_text"
	KeyTimezone        = "extraction.timezone"
	KeyDefaultLimit    = "pagination.default_limit"
	KeyMaxLimit        = "pagination.max_limit"
	KeyAccount         = "account"
)

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	limits := pagination.DefaultLimits()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyStrict, true)
	v.SetDefault(KeyDefaultCurrency, extract.CurrencyINR)
	v.SetDefault(KeyIncludeRawText, false)
	v.SetDefault(KeyTimezone, "UTC")
	v.SetDefault(KeyDefaultLimit, limits.Default)
	v.SetDefault(KeyMaxLimit, limits.Max)
	v.SetDefault(KeyAccount, "default")
}

// ExtractionOptions builds extractor options from configuration.
func ExtractionOptions(v *viper.Viper) (extract.Options, error) {
	opts := extract.DefaultOptions()
	opts.Strict = v.GetBool(KeyStrict)
	opts.IncludeRawText = v.GetBool(KeyIncludeRawText)

	if currency := strings.TrimSpace(v.GetString(KeyDefaultCurrency)); currency != "" {
		opts.DefaultCurrency = strings.ToUpper(currency)
	}

	if tz := v.GetString(KeyTimezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return extract.Options{}, fmt.Errorf("%w: %s %q: %w", common.ErrInvalidConfig, KeyTimezone, tz, err)
		}
		opts.Location = loc
	}

	return opts, nil
}

// Limits returns the configured page size bounds.
func Limits(v *viper.Viper) (pagination.Limits, error) {
	limits := pagination.Limits{
		Default: v.GetInt(KeyDefaultLimit),
		Max:     v.GetInt(KeyMaxLimit),
	}
	if limits.Default <= 0 || limits.Max <= 0 || limits.Default > limits.Max {
		return pagination.Limits{}, fmt.Errorf("%w: pagination limits default=%d max=%d",
			common.ErrInvalidConfig, limits.Default, limits.Max)
	}
	return limits, nil
}

// DatabasePath returns the expanded database location.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyDatabasePath))
}

// Account returns the account statements are stored and listed under.
func Account(v *viper.Viper) string {
	if account := strings.TrimSpace(v.GetString(KeyAccount)); account != "" {
		return account
	}
	return "default"
}
