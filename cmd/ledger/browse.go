package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/alertledger/internal/config"
	"github.com/Veraticus/alertledger/internal/tui"
	"github.com/Veraticus/alertledger/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse statements interactively",
		Long: `Open a full-screen browser over the stored statements.

Keys: n next page, p previous page, enter details, r refresh, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, filters)
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().Int("limit", 0, "statements per page (default: pagination.default_limit)")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}

func runBrowse(cmd *cobra.Command, filters filterFlags) error {
	limit, _ := cmd.Flags().GetInt("limit")
	themeName, _ := cmd.Flags().GetString("theme")

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

	return tui.Run(ctx, store,
		tui.WithAccount(config.Account(viper.GetViper())),
		tui.WithFilter(filter),
		tui.WithLimit(limit),
		tui.WithTheme(themes.ByName(themeName)),
	)
}
