package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/manifest"
	"github.com/probelab/invctl/pkg/reconcile"
	"github.com/probelab/invctl/pkg/schema"
)

var (
	applyFile              string
	applyDryRun            bool
	applyAddOnly           bool
	applyYes               bool
	allowUnknownCollectors bool
	allowUnknownKinds      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile a manifest against the inventory",
	Long: `Validates the manifest, compares each desired asset against the remote
state, and applies the minimal ordered set of changes. --dry-run computes
the changes without executing them; --add-only suppresses all removals.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := manifest.Load(applyFile)
		if err != nil {
			return err
		}

		reg := schema.Default()
		if err := manifest.Validate(m, reg, manifest.Options{
			AllowUnknownCollectors: allowUnknownCollectors,
			AllowUnknownKinds:      allowUnknownKinds,
		}); err != nil {
			return err
		}

		if m.Container == nil {
			if id := viper.GetInt64("container"); id != 0 {
				m.Container = &id
			}
		}

		prompter := newTerminalPrompter()
		token, err := resolveToken(m, prompter)
		if err != nil {
			return err
		}

		client := inventory.NewClient(viper.GetString("server"), token)
		report, err := reconcile.Reconcile(cmd.Context(), client, m, reconcile.Options{
			AddOnly:     applyAddOnly,
			DryRun:      applyDryRun,
			AutoApprove: applyYes,
			Registry:    reg,
			Prompter:    prompter,
			Logger:      slog.Default(),
		})
		if errors.Is(err, reconcile.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled, no changes applied.")
			return err
		}
		if err != nil {
			return err
		}

		if viper.GetString("output") == "text" {
			report.Render(os.Stdout)
		} else if err := printOutput(report); err != nil {
			return err
		}

		if report.Failed() {
			return fmt.Errorf("apply finished with errors")
		}
		return nil
	},
}

// resolveToken picks the API token: flag/env first, then the manifest,
// then an interactive prompt.
func resolveToken(m *manifest.Manifest, prompter *terminalPrompter) (string, error) {
	if token := viper.GetString("token"); token != "" {
		return token, nil
	}
	if m != nil && m.Token != "" {
		return m.Token, nil
	}
	return prompter.Token()
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Manifest file (required)")
	_ = applyCmd.MarkFlagRequired("file")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Compute changes without applying them")
	applyCmd.Flags().BoolVar(&applyAddOnly, "add-only", false, "Never remove collectors or labels")
	applyCmd.Flags().BoolVar(&applyYes, "yes", false, "Skip the confirmation prompt")
	applyCmd.Flags().BoolVar(&allowUnknownCollectors, "allow-unknown-collectors", false, "Accept collector keys outside the registry")
	applyCmd.Flags().BoolVar(&allowUnknownKinds, "allow-unknown-kinds", false, "Accept asset kinds outside the fixed vocabulary")
}
