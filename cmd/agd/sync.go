package main

import (
	"agd/internal/di"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize once and print the number of entries per map",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := di.InitSyncRunner(&flags)
		if err != nil {
			return err
		}
		defer runner.Close()

		revision, counts, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}
		printCounts(cmd.OutOrStdout(), revision, counts)
		return nil
	},
}

func printCounts(w io.Writer, revision string, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "revision %s\n", revision)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %d\n", name, counts[name])
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&flags.SourceDir, "dir", "", "sync from a local checkout with a REVISION file instead of GitLab")
}
