package main

import (
	"github.com/spf13/cobra"

	"symdex/internal/version"
)

var (
	// rootFlag is the tree to index, --root
	rootFlag string
	// outputFlag is the output format, --output
	outputFlag string
)

var rootCmd = &cobra.Command{
	Use:   "symdex",
	Short: "symdex - symbol indexing and lookup engine",
	Long: `symdex scans a source tree, extracts declaration-level symbols
(functions, classes, variables, imports, methods) via language-aware
structural parsing, and keeps a queryable index current as files change
without re-scanning unchanged files.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("symdex version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "root of the tree to index")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "text", "output format: text, json, or yaml")
}
