package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled types in name order.
type CompilationResult struct {
	Types []ir.TypeSpec `json:"types"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	TypeCount     int
	RootCount     int
	PropertyCount int // declared properties, nested included
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <types-dir>",
		Short: "Compile CUE types to JSON",
		Long: `Compile CUE type declarations to the JSON form the binder uses.

The compiler parses every .cue file in the directory, checks parents,
inheritance cycles and property kinds, and prints or writes the result.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, typesDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	catalog, err := LoadTypes(typesDir)
	if err != nil {
		return formatter.Fail(err)
	}

	result := compilationResult(catalog)
	for _, spec := range result.Types {
		formatter.VerboseLog("Compiled type: %s", spec.Name)
	}
	stats := calculateStats(result)

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeTypesToFile(result, opts.Output); err != nil {
			return formatter.Fail(&LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}

	return outputCompileSuccess(formatter, result, stats, opts.Output)
}

func compilationResult(catalog *schema.Catalog) *CompilationResult {
	result := &CompilationResult{}
	for _, name := range catalog.Names() {
		spec, _ := catalog.Lookup(name)
		result.Types = append(result.Types, *spec)
	}
	return result
}

// calculateStats computes summary statistics from compilation result.
func calculateStats(result *CompilationResult) CompilationStats {
	stats := CompilationStats{TypeCount: len(result.Types)}
	for _, spec := range result.Types {
		if spec.Parent == "" {
			stats.RootCount++
		}
		stats.PropertyCount += countProperties(spec.Properties)
	}
	return stats
}

func countProperties(props []ir.PropertySpec) int {
	n := len(props)
	for _, p := range props {
		n += countProperties(p.Properties)
	}
	return n
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "\u2713 Compiled %d type(s), %d root(s), %d propert(ies)\n\n",
		stats.TypeCount, stats.RootCount, stats.PropertyCount)

	fmt.Fprintln(formatter.Writer, "Types:")
	for _, spec := range result.Types {
		parent := "(root)"
		if spec.Parent != "" {
			parent = "extends " + spec.Parent
		}
		fmt.Fprintf(formatter.Writer, "  %s %s: %d property(ies)\n", spec.Name, parent, len(spec.Properties))
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote types to %s\n", outputFile)
	}

	return nil
}

// writeTypesToFile writes the compilation result to a file.
func writeTypesToFile(result *CompilationResult, filename string) error {
	// Use standard JSON with indentation for readability
	// (canonical JSON without indentation is used only for hashing)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling types: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
