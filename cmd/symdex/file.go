package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "List the symbols contributed by one file",
	Long: `Lists all symbols a single file contributes to the index, in
declaration order. The path is relative to the indexed root. An unindexed
or symbol-free file yields an empty list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		syms, err := a.query.ListFile(filepath.ToSlash(args[0]))
		if err != nil {
			return err
		}
		return emit(syms, func() string { return formatSymbols(syms) })
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
}
