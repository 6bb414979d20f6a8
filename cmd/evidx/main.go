// Command evidx loads an event document into an interval event index and
// answers overlap queries on it, from the command line or over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henderiw/evtindex/cmd/evidx/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evidx",
		Short: "Query time ranged events by overlap",
		Long: `evidx indexes the events of a YAML or JSON document by their range
and lists the events overlapping [from, to).

Commands:
  span      earliest start, latest end and number of events
  query     events overlapping a range
  serve     HTTP query endpoint and prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	commands.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(commands.NewSpanCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "evidx %s (commit: %s)\n", version, commit)
		},
	}
}
