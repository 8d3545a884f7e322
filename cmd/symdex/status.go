package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"symdex/internal/history"
	"symdex/internal/store"
)

// statusView is the serializable payload of `symdex status`.
type statusView struct {
	Stats  store.Stats           `json:"stats"`
	Recent []history.BuildRecord `json:"recentBuilds,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics and recent build history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.query.Stats()
		if err != nil {
			return err
		}

		view := statusView{Stats: stats}
		if a.history != nil {
			recent, histErr := a.history.RecentBuilds(5)
			if histErr == nil {
				view.Recent = recent
			}
		}

		return emit(view, func() string { return formatStatus(view) })
	},
}

func formatStatus(v statusView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "files:          %d\n", v.Stats.TotalFiles)
	fmt.Fprintf(&sb, "symbols:        %d\n", v.Stats.TotalSymbols)
	fmt.Fprintf(&sb, "unique names:   %d\n", v.Stats.UniqueNames)
	fmt.Fprintf(&sb, "last build:     %s\n", v.Stats.BuildDuration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "last updated:   %s", v.Stats.LastUpdated.Format(time.RFC3339))

	if len(v.Recent) > 0 {
		sb.WriteString("\n\nrecent builds:")
		for _, rec := range v.Recent {
			fmt.Fprintf(&sb, "\n  %s  %s  %d indexed, %d skipped, %d symbols (%s)",
				rec.StartedAt.Format("2006-01-02 15:04:05"),
				rec.BuildID[:8],
				rec.FilesIndexed, rec.FilesSkipped, rec.SymbolsFound,
				rec.Duration.Round(time.Millisecond))
		}
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
