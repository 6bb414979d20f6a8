package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func NewSpanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "span FILE",
		Short: "Print the earliest start, latest end and number of events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tl, err := openTimeline(cfg, args[0], log)
			if err != nil {
				return err
			}
			span, ok := tl.Span()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no events")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "start:  %s\nend:    %s\nevents: %s\n", span.Start, span.End, humanize.Comma(int64(span.Count)))
			return nil
		},
	}
}
