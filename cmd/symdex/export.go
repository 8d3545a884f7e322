package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"symdex/internal/export"
)

var exportOutFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index in SCIP format",
	Long: `Writes the current index as a SCIP protobuf file for consumption by
code-intelligence tooling. Requires a built or restored index.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := export.WriteSCIP(a.store, a.root, exportOutFlag); err != nil {
			return err
		}
		fmt.Printf("wrote SCIP index to %s\n", exportOutFlag)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "index.scip", "output path")
	rootCmd.AddCommand(exportCmd)
}
