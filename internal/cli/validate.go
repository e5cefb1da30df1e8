package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/mechanics"
	"github.com/roach88/aetherforge/internal/rules"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// ValidationResult holds validation results for one snapshot file.
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []mechanics.FieldError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <snapshot-file>",
		Short: "Validate a character snapshot",
		Long: `Validate a character snapshot file (.json or .yaml).

Checks the document against the structural schema, migrates old format
versions, rehydrates the aggregate, and runs full domain validation.
All violations are reported in one pass, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	doc, err := LoadSnapshotFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("Loaded snapshot from %s", path)

	c, err := snapshot.Rehydrate(doc, snapshot.DefaultMigrations())
	if err != nil {
		var se *snapshot.Error
		if errors.As(err, &se) {
			_ = formatter.Error(string(se.Code), se.Message, nil)
			return NewExitError(ExitFailure, se.Message)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	// Structural schema check runs on the migrated document so the schema
	// only has to describe the current format.
	migrated, err := c.ToDocument()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	migrated["version"] = document.String(snapshot.CurrentVersion)

	schema, err := rules.SnapshotSchema()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	if err := rules.ValidateSnapshotDocument(schema, document.ToGo(migrated).(map[string]any)); err != nil {
		_ = formatter.Error("SCHEMA_VIOLATION", err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("Schema check passed, running domain validation")

	if err := c.Validate(); err != nil {
		var ve *mechanics.ValidationError
		if errors.As(err, &ve) {
			return outputValidationErrors(formatter, ve.Errors)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	return outputValidateSuccess(formatter)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Snapshot valid")
	return nil
}

// outputLoadError outputs a snapshot-file load failure.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}

// outputValidationErrors outputs accumulated domain validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []mechanics.FieldError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    string(errs[0].Code),
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s [%s]: %s\n", err.Field, err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
