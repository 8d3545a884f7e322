package main

import (
	"github.com/spf13/cobra"
)

var symbolCmd = &cobra.Command{
	Use:   "symbol <name>",
	Short: "Find symbols by exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		syms, err := a.query.FindByName(args[0])
		if err != nil {
			return err
		}
		return emit(syms, func() string { return formatSymbols(syms) })
	},
}

func init() {
	rootCmd.AddCommand(symbolCmd)
}
