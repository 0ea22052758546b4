package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in the types or a world.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Types   int               `json:"types"`
	Objects int               `json:"objects"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

// pathErrorCodes are load errors about the arguments themselves rather
// than their contents.
var pathErrorCodes = []string{ErrCodeScanError, ErrCodeNoFiles, ErrCodeNotFound}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <types-dir> [world.yaml...]",
		Short: "Validate types and world snapshots",
		Long: `Validate CUE type declarations and, optionally, YAML worlds against them.

Every world is checked: unknown types, unknown properties, kind mismatches
and duplicate serials are reported per file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, typesDir string, worlds []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	result := ValidationResult{}

	catalog, err := LoadTypes(typesDir)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) || slices.Contains(pathErrorCodes, loadErr.Code) {
			return formatter.Fail(err)
		}
		result.Errors = append(result.Errors, issueFromLoadError(loadErr))
		return outputValidationErrors(formatter, result)
	}
	result.Types = catalog.Len()
	formatter.VerboseLog("Compiled %d type(s) from %s", catalog.Len(), typesDir)

	for _, path := range worlds {
		snap, err := LoadWorld(path, catalog)
		if err != nil {
			var loadErr *LoadError
			if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
				return formatter.Fail(err)
			}
			issue := ValidationIssue{Code: ErrCodeInvalidWorld, Message: err.Error(), File: path}
			if loadErr != nil {
				issue.Message = loadErr.Message
			}
			result.Errors = append(result.Errors, issue)
			continue
		}
		formatter.VerboseLog("Validated %d object(s) in %s", snap.Len(), path)
		result.Objects += snap.Len()
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

func issueFromLoadError(e *LoadError) ValidationIssue {
	issue := ValidationIssue{Code: e.Code, Message: e.Message}
	if e.Pos.IsValid() {
		issue.File = e.Pos.Filename()
		issue.Line = e.Pos.Line()
	}
	return issue
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "\u2713 %d type(s) valid", result.Types)
	if result.Objects > 0 {
		fmt.Fprintf(formatter.Writer, ", %d object(s) valid", result.Objects)
	}
	fmt.Fprintln(formatter.Writer)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "\u2717 Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range errs {
		switch {
		case issue.File != "" && issue.Line > 0:
			fmt.Fprintf(formatter.Writer, "%s:%d\n", issue.File, issue.Line)
		case issue.File != "":
			fmt.Fprintf(formatter.Writer, "%s\n", issue.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
