package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelops/fieldsync/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Tenant   string // optional - specific tenant only
}

// VerifyChainResult holds the verification result for a single tenant chain.
type VerifyChainResult struct {
	TenantID       string `json:"tenant_id"`
	Entries        int    `json:"entries"`
	OK             bool   `json:"ok"`
	BrokenSequence int64  `json:"broken_sequence,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Expected       string `json:"expected,omitempty"`
	Actual         string `json:"actual,omitempty"`
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	Chains       []VerifyChainResult `json:"chains"`
	TotalChains  int                 `json:"total_chains"`
	TotalEntries int                 `json:"total_entries"`
	AllOK        bool                `json:"all_ok"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify change log hash chains",
		Long: `Verify the integrity of the per-tenant change log hash chains.

Walks each tenant's change log in sequence order, recomputes every state
hash from the stored entry, and checks that each entry links to its
predecessor all the way back to genesis.

Exit codes:
  0 - All chains intact
  1 - A chain is broken (bad linkage or hash mismatch)
  2 - Command error (database not found, etc.)

Examples:
  fieldsyncd verify --db ./fieldsync.db
  fieldsyncd verify --db ./fieldsync.db --tenant tnt_demo
  fieldsyncd verify --db ./fieldsync.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "verify specific tenant only")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var reports []store.VerifyReport
	if opts.Tenant != "" {
		report, err := st.VerifyChain(ctx, opts.Tenant)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify tenant %s", opts.Tenant), err)
		}
		reports = []store.VerifyReport{report}
	} else {
		reports, err = st.VerifyAll(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to verify chains", err)
		}
	}

	result := VerifyResult{
		Chains: make([]VerifyChainResult, 0, len(reports)),
		AllOK:  true,
	}
	for _, r := range reports {
		result.Chains = append(result.Chains, VerifyChainResult{
			TenantID:       r.TenantID,
			Entries:        r.Entries,
			OK:             r.OK,
			BrokenSequence: r.BrokenSequence,
			Reason:         r.Reason,
			Expected:       r.Expected,
			Actual:         r.Actual,
		})
		result.TotalEntries += r.Entries
		if !r.OK {
			result.AllOK = false
		}
	}
	result.TotalChains = len(result.Chains)

	if opts.Format == "json" {
		return outputVerifyJSON(cmd, result)
	}
	return outputVerifyText(cmd, result)
}

// outputVerifyJSON outputs the verification result as JSON.
func outputVerifyJSON(cmd *cobra.Command, result VerifyResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllOK {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_CHAIN",
			Message: "chain verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllOK {
		// Broken chain = exit code 1
		return NewExitError(ExitFailure, "chain verification failed")
	}
	return nil
}

// outputVerifyText outputs the verification result as text.
func outputVerifyText(cmd *cobra.Command, result VerifyResult) error {
	w := cmd.OutOrStdout()

	if result.TotalChains == 0 {
		fmt.Fprintln(w, "No chain entries found in database.")
		return nil
	}

	fmt.Fprintf(w, "Verify Summary: %d chain(s), %d entries\n", result.TotalChains, result.TotalEntries)
	fmt.Fprintln(w)

	for _, c := range result.Chains {
		status := "✓"
		if !c.OK {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Tenant: %s (%d entries)\n", status, c.TenantID, c.Entries)
		if !c.OK {
			fmt.Fprintf(w, "  Broken at sequence %d: %s\n", c.BrokenSequence, c.Reason)
			fmt.Fprintf(w, "  Expected: %s\n", c.Expected)
			fmt.Fprintf(w, "  Actual:   %s\n", c.Actual)
		}
		fmt.Fprintln(w)
	}

	if result.AllOK {
		fmt.Fprintln(w, "✓ All chains intact")
		return nil
	}

	fmt.Fprintln(w, "✗ Chain verification failed")
	// Broken chain = exit code 1
	return NewExitError(ExitFailure, "chain verification failed")
}
