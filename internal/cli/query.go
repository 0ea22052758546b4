package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/command"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	SourceOptions
	Pushdown bool

	// IDGenerator allows overriding the invocation id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator command.IDGenerator
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [flags] <tokens...>",
		Short: "Run a command over a world",
		Long: `Run a player command over a YAML world or a SQLite store.

Trailing Where, Distinct, Sort and Limit extensions select and order the
objects; the leading tokens are printed as columns. Flags must come before
the command tokens so operands such as "-1" are not read as flags.

Exit codes:
  0 - Command evaluated
  1 - Command rejected (syntax, binding or semantic error)
  2 - Command error (invalid paths, unreadable types, etc.)

Examples:
  wherecmd query --types ./types --world britain.yaml name hits Where Mobile hits '>' 50 Sort hits desc Limit 3
  wherecmd query --types ./types --db world.db --pushdown --access Owner name Where PlayerMobile Distinct guild`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().SetInterspersed(false)
	opts.addActorFlags(cmd)
	opts.addSourceFlags(cmd)
	cmd.Flags().BoolVar(&opts.Pushdown, "pushdown", false, "evaluate portable pipelines as SQL (with --db)")

	return cmd
}

func runQuery(opts *QueryOptions, tokens []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	actor, err := opts.actor()
	if err != nil {
		return formatter.Fail(err)
	}

	catalog, err := LoadTypes(opts.Types)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Loaded %d type(s) from %s", catalog.Len(), opts.Types)

	src, closeSource, err := opts.openSource(catalog)
	if err != nil {
		return formatter.Fail(err)
	}
	defer closeSource()
	if n, ok := countObjects(ctx, src); ok {
		formatter.VerboseLog("Store %s holds %d object(s)", opts.DB, n)
	}

	runnerOpts := []command.Option{command.WithPushdown(opts.Pushdown)}
	if opts.IDGenerator != nil {
		runnerOpts = append(runnerOpts, command.WithIDGenerator(opts.IDGenerator))
	}
	runner := command.NewRunner(catalog, runnerOpts...)

	res, err := runner.Run(ctx, actor, tokens, src)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return json.NewEncoder(formatter.Writer).Encode(CLIResponse{
			Status:       "ok",
			Data:         res,
			InvocationID: res.ID,
		})
	}

	writeRows(formatter.Writer, res)
	formatter.VerboseLog("Invocation %s (seq %d), digest %s", res.ID, res.Seq, res.Digest)
	return nil
}

// writeRows prints a result as an aligned table followed by a summary
// line. Without columns every readable property is printed as JSON.
func writeRows(w io.Writer, res *command.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"SERIAL", "TYPE"}
	if len(res.Columns) == 0 {
		header = append(header, "PROPERTIES")
	} else {
		header = append(header, res.Columns...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range res.Rows {
		cells := []string{fmt.Sprintf("0x%08X", row.Serial), row.Type}
		if len(res.Columns) == 0 {
			cells = append(cells, formatValue(row.Values))
		}
		for _, col := range res.Columns {
			cells = append(cells, formatValue(row.Values[col]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	fmt.Fprintf(w, "%d row(s) from %d candidate(s) [%s]\n", len(res.Rows), res.Candidates, res.Mode)
}

// formatValue renders strings bare and everything else as canonical JSON.
func formatValue(v ir.IRValue) string {
	switch val := v.(type) {
	case nil, ir.IRNull:
		return "null"
	case ir.IRString:
		return string(val)
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
