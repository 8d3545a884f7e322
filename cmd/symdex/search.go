package main

import (
	"github.com/spf13/cobra"

	"symdex/internal/symbols"
)

var (
	kindFlag  string
	limitFlag int
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search symbols by name substring",
	Long: `Case-insensitive substring match against symbol names, optionally
filtered by kind (function, class, variable, import, method).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var kind symbols.Kind
		if kindFlag != "" {
			kind, err = symbols.ParseKind(kindFlag)
			if err != nil {
				return err
			}
		}

		limit := limitFlag
		if limit <= 0 {
			limit = a.cfg.Search.Limit
		}

		syms, err := a.query.Search(args[0], kind, limit)
		if err != nil {
			return err
		}
		return emit(syms, func() string { return formatSymbols(syms) })
	},
}

func init() {
	searchCmd.Flags().StringVar(&kindFlag, "kind", "", "filter by symbol kind")
	searchCmd.Flags().IntVar(&limitFlag, "limit", 0, "maximum results (default from config)")
	rootCmd.AddCommand(searchCmd)
}
