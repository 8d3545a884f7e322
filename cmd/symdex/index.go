package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"symdex/internal/config"
	ierr "symdex/internal/errors"
)

var forceFlag bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or incrementally update the symbol index",
	Long: `Scans the tree under --root and rebuilds the symbol index. Files whose
content fingerprint is unchanged keep their prior contribution and are not
re-parsed; pass --force to re-extract everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// First run in a fresh tree: write the default config so the
		// filter rules are visible and editable.
		if err := config.EnsureSaved(a.root); err != nil {
			a.logger.Warn("Could not write config", map[string]interface{}{"error": err.Error()})
		}

		stats, err := a.builder.Build(cmd.Context(), forceFlag)
		if err != nil && stats == nil {
			return err
		}
		if err != nil && ierr.HasCode(err, ierr.StorageError) {
			// Merge succeeded; only persistence failed. The in-memory result
			// is still reported, the snapshot will be retried next build.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		return emit(stats, stats.String)
	},
}

func init() {
	indexCmd.Flags().BoolVar(&forceFlag, "force", false, "re-extract every file regardless of fingerprints")
	rootCmd.AddCommand(indexCmd)
}
