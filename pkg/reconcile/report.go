package reconcile

import (
	"fmt"
	"io"

	"github.com/probelab/invctl/pkg/diff"
)

// AssetReport records what happened (or would happen) for one asset.
type AssetReport struct {
	Name       string    `json:"name" yaml:"name"`
	ID         int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Operations []diff.Op `json:"operations,omitempty" yaml:"operations,omitempty"`

	// Applied is true when every operation executed successfully. Always
	// false in dry-run mode.
	Applied bool `json:"applied" yaml:"applied"`

	// Error is the failure that stopped this asset's remaining
	// operations, if any. Operations already applied are not rolled back.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	DryRun    bool          `json:"dryRun" yaml:"dryRun"`
	Container int64         `json:"container" yaml:"container"`
	Assets    []AssetReport `json:"assets" yaml:"assets"`
}

// Changed reports whether any asset produced at least one operation.
func (r *Report) Changed() bool {
	for _, a := range r.Assets {
		if len(a.Operations) > 0 {
			return true
		}
	}
	return false
}

// Failed reports whether any asset's operations failed.
func (r *Report) Failed() bool {
	for _, a := range r.Assets {
		if a.Error != "" {
			return true
		}
	}
	return false
}

// Render writes the report in human-readable form.
func (r *Report) Render(w io.Writer) {
	for _, a := range r.Assets {
		ident := a.Name
		if ident == "" {
			ident = fmt.Sprintf("id %d", a.ID)
		}
		if len(a.Operations) == 0 && a.Error == "" {
			fmt.Fprintf(w, "asset %s: no changes\n", ident)
			continue
		}
		fmt.Fprintf(w, "asset %s:\n", ident)
		for _, op := range a.Operations {
			fmt.Fprintf(w, "  %s\n", op)
		}
		if a.Error != "" {
			fmt.Fprintf(w, "  failed: %s\n", a.Error)
		}
	}

	switch {
	case !r.Changed():
		fmt.Fprintln(w, "No changes.")
	case r.DryRun:
		fmt.Fprintln(w, "Dry run: no changes applied.")
	case r.Failed():
		fmt.Fprintln(w, "Applied with errors.")
	default:
		fmt.Fprintln(w, "Applied.")
	}
}
