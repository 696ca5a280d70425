package diff

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/manifest"
	"github.com/probelab/invctl/pkg/schema"
)

// Diff computes the operations needed to turn original into desired. It
// is a pure function: inputs are not mutated and the result is
// deterministic for the same pair.
//
// A nil original means the asset does not exist remotely; the first
// operation is then create-asset and the remaining comparison runs
// against the service-side defaults of a fresh asset. An absent desired
// field (or an absent collectors/labels list) means "leave unchanged" and
// never produces an operation.
//
// Operations are emitted in the fixed execution order: create, scalar
// properties (name, kind, description, mode), collector adds/updates in
// desired order, collector removals in remote order, label adds in
// desired order, label removals in remote order. addOnly suppresses the
// two removal kinds and nothing else.
func Diff(original *inventory.Asset, desired *manifest.Asset, reg schema.Registry, addOnly bool) []Op {
	var ops []Op

	base := original
	if base == nil {
		ops = append(ops, Op{Kind: CreateAsset, Name: desired.Name})
		base = &inventory.Asset{
			Name:        desired.Name,
			Kind:        schema.DefaultKind,
			Description: schema.DefaultDescription,
			Mode:        schema.DefaultMode,
		}
	}

	ops = append(ops, scalarOps(base, desired)...)
	ops = append(ops, collectorOps(base, desired, reg, addOnly)...)
	ops = append(ops, labelOps(base, desired, addOnly)...)
	return ops
}

func scalarOps(base *inventory.Asset, desired *manifest.Asset) []Op {
	var ops []Op
	if desired.Name != "" && desired.Name != base.Name {
		ops = append(ops, Op{Kind: SetProperty, Property: "name", Value: desired.Name})
	}
	if desired.Kind != "" && desired.Kind != base.Kind {
		ops = append(ops, Op{Kind: SetProperty, Property: "kind", Value: desired.Kind})
	}
	if desired.Description != nil && *desired.Description != base.Description {
		ops = append(ops, Op{Kind: SetProperty, Property: "description", Value: *desired.Description})
	}
	if desired.Mode != "" && desired.Mode != base.Mode {
		ops = append(ops, Op{Kind: SetProperty, Property: "mode", Value: desired.Mode})
	}
	return ops
}

func collectorOps(base *inventory.Asset, desired *manifest.Asset, reg schema.Registry, addOnly bool) []Op {
	if desired.Collectors == nil {
		return nil
	}

	remote := make(map[string]inventory.CollectorState, len(base.Collectors))
	for _, c := range base.Collectors {
		remote[c.Key] = c
	}

	var ops []Op
	desiredKeys := mapset.NewThreadUnsafeSet[string]()
	for i := range desired.Collectors {
		d := &desired.Collectors[i]
		desiredKeys.Add(d.Key)

		entry, known := reg.Lookup(d.Key)
		if !known {
			entry = schema.UncheckedSchema()
		}
		cfg := d.ConfigMap()

		current, exists := remote[d.Key]
		switch {
		case !exists:
			ops = append(ops, Op{Kind: AddCollector, Key: d.Key, Config: cfg})
		case !schema.ConfigEqual(entry, cfg, current.Config):
			ops = append(ops, Op{Kind: UpdateCollector, Key: d.Key, Config: cfg})
		}
	}

	if !addOnly {
		for _, c := range base.Collectors {
			if !desiredKeys.Contains(c.Key) {
				ops = append(ops, Op{Kind: RemoveCollector, Key: c.Key})
			}
		}
	}
	return ops
}

func labelOps(base *inventory.Asset, desired *manifest.Asset, addOnly bool) []Op {
	if desired.Labels == nil {
		return nil
	}

	remote := mapset.NewThreadUnsafeSet(base.Labels...)
	wanted := desired.LabelIDs()

	var ops []Op
	for _, id := range wanted {
		if !remote.Contains(id) {
			ops = append(ops, Op{Kind: AddLabel, LabelID: id})
		}
	}

	if !addOnly {
		wantedSet := mapset.NewThreadUnsafeSet(wanted...)
		for _, id := range base.Labels {
			if !wantedSet.Contains(id) {
				ops = append(ops, Op{Kind: RemoveLabel, LabelID: id})
			}
		}
	}
	return ops
}
