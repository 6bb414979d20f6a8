package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/labels"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type queryOptions struct {
	from     string
	to       string
	reverse  bool
	selector string
	output   string
}

func NewQueryCommand() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query FILE",
		Short: "List the events overlapping [from, to)",
		Long: `List the events of FILE whose range overlaps [from, to), ordered by start.
Leaving out --from or --to leaves that side of the range open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "range start (inclusive)")
	cmd.Flags().StringVar(&opts.to, "to", "", "range end (exclusive)")
	cmd.Flags().BoolVarP(&opts.reverse, "reverse", "r", false, "order by descending start")
	cmd.Flags().StringVarP(&opts.selector, "selector", "l", "", "label selector, e.g. kind=deploy,env!=test")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")
	return cmd
}

func runQuery(cmd *cobra.Command, path string, opts *queryOptions) error {
	if opts.output != outputTable && opts.output != outputJSON {
		return errors.Errorf("unknown output format %q", opts.output)
	}
	selector, err := labels.Parse(opts.selector)
	if err != nil {
		return errors.Wrap(err, "invalid selector")
	}

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tl, err := openTimeline(cfg, path, log)
	if err != nil {
		return err
	}

	rows, err := tl.Query(Query{
		From:     opts.from,
		To:       opts.to,
		Reverse:  opts.reverse,
		Selector: selector,
	})
	if err != nil {
		return err
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	renderRows(cmd.OutOrStdout(), rows)
	return nil
}

func renderRows(out io.Writer, rows []Row) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Start", "End", "Labels"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.ID, row.Start, row.End, formatLabels(row.Labels)})
	}
	t.AppendFooter(table.Row{"", "", "Events", humanize.Comma(int64(len(rows)))})
	t.Render()
}

func formatLabels(l map[string]string) string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, l[k]))
	}
	return strings.Join(parts, ",")
}
