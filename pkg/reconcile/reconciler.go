// Package reconcile orchestrates a reconciliation run: per manifest
// asset, resolve the remote identity, diff desired against observed, and
// execute (or just report) the resulting operations.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/probelab/invctl/pkg/diff"
	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/manifest"
	"github.com/probelab/invctl/pkg/schema"
)

// ErrCancelled is returned when the operator declines the confirmation
// prompt. No mutating call has been made when it is returned.
var ErrCancelled = errors.New("run cancelled by operator")

// Options control a reconciliation run.
type Options struct {
	// AddOnly suppresses remove-collector and remove-label operations.
	AddOnly bool

	// DryRun computes and reports operations without executing any
	// mutating call. Read-side calls (lookups, fetches) still happen.
	DryRun bool

	// AutoApprove skips the confirmation prompt.
	AutoApprove bool

	// Registry is the collector schema registry; required.
	Registry schema.Registry

	// Prompter supplies the confirmation prompt. Required unless DryRun
	// or AutoApprove is set.
	Prompter Prompter

	// Logger receives per-operation diagnostics; defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Reconcile processes the manifest's assets in order against the remote
// service. A failed operation aborts the rest of that asset's operations
// but not the run; per-asset outcomes are collected in the report. The
// returned error is non-nil only for run-level failures: container
// resolution, a declined confirmation, or a failed prompt.
func Reconcile(ctx context.Context, svc inventory.Service, m *manifest.Manifest, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	containerID, err := resolveContainer(ctx, svc, m)
	if err != nil {
		return nil, fmt.Errorf("resolve container: %w", err)
	}

	labels := newLabelCache(svc)
	report := &Report{DryRun: opts.DryRun, Container: containerID}
	confirmed := opts.DryRun || opts.AutoApprove

	for _, a := range m.Assets {
		ar := AssetReport{Name: a.Name}

		original, err := resolveOriginal(ctx, svc, a)
		if err != nil {
			ar.Error = err.Error()
			logger.Error("resolve asset failed", "asset", a.Ident(), "error", err)
			report.Assets = append(report.Assets, ar)
			continue
		}
		if original != nil {
			ar.ID = original.ID
			if ar.Name == "" {
				ar.Name = original.Name
			}
		}

		ops := diff.Diff(original, a, opts.Registry, opts.AddOnly)
		ar.Operations = ops

		if len(ops) == 0 || opts.DryRun {
			report.Assets = append(report.Assets, ar)
			continue
		}

		if !confirmed {
			summary := runSummary(ctx, m, containerID, labels, logger)
			ok, err := opts.Prompter.Confirm(summary)
			if err != nil {
				return report, fmt.Errorf("confirmation prompt: %w", err)
			}
			if !ok {
				return report, ErrCancelled
			}
			confirmed = true
		}

		id, err := applyOps(ctx, svc, containerID, original, ops, logger)
		ar.ID = id
		if err != nil {
			ar.Error = err.Error()
			logger.Error("apply failed", "asset", a.Ident(), "error", err)
		} else {
			ar.Applied = true
		}
		report.Assets = append(report.Assets, ar)
	}

	return report, nil
}

func resolveContainer(ctx context.Context, svc inventory.Service, m *manifest.Manifest) (int64, error) {
	if m.Container != nil {
		return *m.Container, nil
	}
	return svc.ResolveContainerID(ctx)
}

// resolveOriginal fetches the observed asset for a descriptor. A nil
// result with nil error means the asset does not exist remotely and must
// be created.
func resolveOriginal(ctx context.Context, svc inventory.Service, a *manifest.Asset) (*inventory.Asset, error) {
	if a.ID != nil {
		return svc.FetchAsset(ctx, *a.ID)
	}
	id, found, err := svc.FindAssetID(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return svc.FetchAsset(ctx, id)
}

// applyOps executes the operations in order. The first failure stops the
// remaining operations; already-applied ones stay applied.
func applyOps(ctx context.Context, svc inventory.Service, containerID int64, original *inventory.Asset, ops []diff.Op, logger *slog.Logger) (int64, error) {
	var id int64
	if original != nil {
		id = original.ID
	}

	for _, op := range ops {
		logger.Debug("applying", "asset", id, "op", op.String())
		var err error
		switch op.Kind {
		case diff.CreateAsset:
			id, err = svc.CreateAsset(ctx, containerID, op.Name)
		case diff.SetProperty:
			err = svc.SetProperty(ctx, id, op.Property, op.Value)
		case diff.AddCollector, diff.UpdateCollector:
			err = svc.AddCollector(ctx, id, op.Key, op.Config)
		case diff.RemoveCollector:
			err = svc.RemoveCollector(ctx, id, op.Key)
		case diff.AddLabel:
			err = svc.AddLabel(ctx, id, op.LabelID)
		case diff.RemoveLabel:
			err = svc.RemoveLabel(ctx, id, op.LabelID)
		default:
			err = fmt.Errorf("unknown operation kind %q", op.Kind)
		}
		if err != nil {
			return id, fmt.Errorf("%s: %w", op, err)
		}
	}
	return id, nil
}

// runSummary renders the context shown before the confirmation prompt:
// the target container and every label referenced by the manifest with
// its remotely resolved name.
func runSummary(ctx context.Context, m *manifest.Manifest, containerID int64, labels *labelCache, logger *slog.Logger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "container: %d\n", containerID)

	ids := referencedLabelIDs(m)
	for _, id := range ids {
		name, err := labels.name(ctx, id)
		if err != nil {
			logger.Warn("label name lookup failed", "label", id, "error", err)
			name = "?"
		}
		fmt.Fprintf(&b, "label %d: %s\n", id, name)
	}
	return b.String()
}

func referencedLabelIDs(m *manifest.Manifest) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, a := range m.Assets {
		for _, id := range a.LabelIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
