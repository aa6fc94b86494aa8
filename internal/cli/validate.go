package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lexsim/internal/catalog"
	"github.com/roach88/lexsim/internal/law"
)

// ValidationIssue is one problem found in a catalog or population file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Files    int               `json:"files"`
	Statutes int               `json:"statutes"`
	Agents   int               `json:"agents,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Population string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a statute catalog without running a simulation",
		Long: `Validate a CUE statute catalog and, optionally, a YAML population file.

Compiles every statute, checks condition operators and effect kinds, and
enforces the condition nesting limit. Reports all problems rather than
stopping at the first one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Population, "population", "", "path to YAML population file to validate alongside the catalog")

	return cmd
}

func runValidate(opts *ValidateOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := catalog.LoadCatalog(catalogDir, catalog.LoadModeCollectAll)

	// Hard load failures (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			if err := formatter.Error(loadErr.Code, loadErr.Message, nil); err != nil {
				return err
			}
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		return WrapExitError(ExitCommandError, "failed to load catalog", loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, catalogDir)

	result := ValidationResult{
		Files:    loadResult.FileCount,
		Statutes: len(loadResult.Statutes),
	}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toIssue(err))
	}

	for _, st := range loadResult.Statutes {
		formatter.VerboseLog("Statute %s: %q", st.ID, st.Title)
		for _, cond := range st.Preconditions {
			formatter.VerboseLog("  requires %s", law.Render(cond))
		}
		if st.Discretionary() {
			formatter.VerboseLog("  discretionary: %s", st.DiscretionLogic)
		}
	}

	if opts.Population != "" {
		pop, err := catalog.LoadPopulation(opts.Population)
		if err != nil {
			result.Errors = append(result.Errors, toIssue(err))
		} else {
			result.Agents = len(pop)
			formatter.VerboseLog("Population %s: %d agent(s)", opts.Population, len(pop))
		}
	}

	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		if err := outputValidationErrors(formatter, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
	}

	return outputValidateSuccess(formatter, result)
}

func toIssue(err error) ValidationIssue {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return ValidationIssue{Code: loadErr.Code, Message: loadErr.Error()}
	}
	return ValidationIssue{Code: catalog.ErrCodeGeneric, Message: err.Error()}
}

func outputValidationErrors(f *OutputFormatter, result ValidationResult) error {
	if f.Format == "json" {
		return f.Error(catalog.ErrCodeCompile, fmt.Sprintf("%d validation error(s)", len(result.Errors)), result)
	}

	fmt.Fprintf(f.Writer, "Validation failed: %d error(s)\n", len(result.Errors))
	for _, issue := range result.Errors {
		fmt.Fprintf(f.Writer, "  [%s] %s\n", issue.Code, issue.Message)
	}
	return nil
}

func outputValidateSuccess(f *OutputFormatter, result ValidationResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "Catalog valid: %d statute(s) in %d file(s)\n", result.Statutes, result.Files)
	if result.Agents > 0 {
		fmt.Fprintf(f.Writer, "Population valid: %d agent(s)\n", result.Agents)
	}
	return nil
}
