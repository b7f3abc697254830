package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelops/fieldsync/internal/schema"
	"github.com/kestrelops/fieldsync/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Database string
	Tenant   string // optional - specific tenant only
}

// AuditResult holds payload audit results.
type AuditResult struct {
	Valid    bool             `json:"valid"`
	Checked  int              `json:"checked"`
	Findings []schema.Finding `json:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Audit stored payloads against their schemas",
		Long: `Audit every stored payload document against its kind's schema.

The sync path stores payloads byte-faithfully and never validates them,
so this command is how malformed or incomplete documents surface. Each
row's payload is unified with the embedded schema for its kind and every
violation is reported with the row that produced it.

Exit codes:
  0 - All payloads valid
  1 - Schema violations found
  2 - Command error (database not found, etc.)

Examples:
  fieldsyncd validate --db ./fieldsync.db
  fieldsyncd validate --db ./fieldsync.db --tenant tnt_demo
  fieldsyncd validate --db ./fieldsync.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "audit specific tenant only")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile payload schemas", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	findings, checked, err := validator.AuditStore(context.Background(), st, opts.Tenant)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to audit payloads", err)
	}
	formatter.VerboseLog("Checked %d payload(s) in %s", checked, opts.Database)

	result := AuditResult{
		Valid:    len(findings) == 0,
		Checked:  checked,
		Findings: findings,
	}

	if result.Valid {
		return outputAuditSuccess(formatter, result)
	}
	return outputAuditFindings(formatter, result)
}

// outputAuditSuccess outputs a clean audit.
func outputAuditSuccess(formatter *OutputFormatter, result AuditResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All payloads valid (%d checked)\n", result.Checked)
	return nil
}

// outputAuditFindings outputs schema violations.
func outputAuditFindings(formatter *OutputFormatter, result AuditResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Findings[0].Error.Code,
				Message: result.Findings[0].Error.Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Schema violations = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("payload audit failed with %d finding(s)", len(result.Findings)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Payload audit failed")
	fmt.Fprintln(formatter.Writer)

	for _, f := range result.Findings {
		fmt.Fprintf(formatter.Writer, "%s/%s (tenant %s)\n", f.Kind, f.RowID, f.TenantID)
		fmt.Fprintf(formatter.Writer, "  %s\n\n", f.Error.Error())
	}
	fmt.Fprintf(formatter.Writer, "%d finding(s) across %d payload(s)\n", len(result.Findings), result.Checked)

	// Schema violations = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("payload audit failed with %d finding(s)", len(result.Findings)))
}
