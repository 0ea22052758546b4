package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/extension"
)

// ExtensionInfo describes one registered extension keyword.
type ExtensionInfo struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
	Arity string `json:"arity"` // operand count or "variadic"
}

// NewExtensionsCommand creates the extensions command.
func NewExtensionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "extensions",
		Short:         "List registered extension keywords",
		Long:          "List the extension keywords in execution order, with their operand counts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return outputExtensions(formatter, extension.Default())
		},
	}
}

func describeExtensions(r *extension.Registry) []ExtensionInfo {
	descs := r.Descriptors()
	out := make([]ExtensionInfo, len(descs))
	for i, d := range descs {
		arity := "variadic"
		if !d.IsVariadic() {
			arity = strconv.Itoa(d.Arity)
		}
		out[i] = ExtensionInfo{Name: d.Name, Order: d.Order, Arity: arity}
	}
	return out
}

func outputExtensions(formatter *OutputFormatter, r *extension.Registry) error {
	infos := describeExtensions(r)
	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tORDER\tARITY")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Order, info.Arity)
	}
	return tw.Flush()
}
