package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/command"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	SourceOptions
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain [flags] <tokens...>",
		Short: "Show how a command would be evaluated",
		Long: `Parse a command without reading any world and print its ordered
stages, display columns and the equivalent SQLite query.

Warnings name the constructs that keep a pipeline from being pushed down
to SQL; such pipelines are always evaluated in memory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args, cmd)
		},
	}

	cmd.Flags().SetInterspersed(false)
	opts.addActorFlags(cmd)

	return cmd
}

func runExplain(opts *ExplainOptions, tokens []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	actor, err := opts.actor()
	if err != nil {
		return formatter.Fail(err)
	}
	catalog, err := LoadTypes(opts.Types)
	if err != nil {
		return formatter.Fail(err)
	}

	plan, err := command.NewRunner(catalog).Explain(actor, tokens)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(plan)
	}

	w := formatter.Writer
	fmt.Fprintln(w, "Stages:")
	if len(plan.Stages) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for i, stage := range plan.Stages {
		fmt.Fprintf(w, "  %d. %s\n", i+1, stage)
	}
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(plan.Columns, " "))
	if plan.BaseType != "" {
		fmt.Fprintf(w, "Base type: %s\n", plan.BaseType)
	}
	if plan.SQL != "" {
		fmt.Fprintf(w, "SQL: %s\n", plan.SQL)
		fmt.Fprintf(w, "Params: %v\n", plan.Params)
	}
	fmt.Fprintf(w, "Portable: %t\n", plan.Portable)
	if len(plan.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range plan.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}
	return nil
}
