package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/manifest"
	"github.com/probelab/invctl/pkg/schema"
)

func kinds(ops []Op) []Kind {
	out := make([]Kind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func TestDiffCreateThenAddCollector(t *testing.T) {
	desired := &manifest.Asset{
		Name:       "h1",
		Collectors: []manifest.Collector{{Key: "ping"}},
	}

	ops := Diff(nil, desired, schema.Default(), false)

	require.Len(t, ops, 2)
	assert.Equal(t, Op{Kind: CreateAsset, Name: "h1"}, ops[0])
	assert.Equal(t, Op{Kind: AddCollector, Key: "ping"}, ops[1])
}

func TestDiffNoChanges(t *testing.T) {
	original := &inventory.Asset{
		ID:   12,
		Name: "web-1",
		Kind: "Host",
		Mode: "normal",
	}
	desired := &manifest.Asset{Name: "web-1", Kind: "Host"}

	assert.Empty(t, Diff(original, desired, schema.Default(), false))
}

func TestDiffScalarProperties(t *testing.T) {
	desc := "edge router"
	original := &inventory.Asset{
		ID:          5,
		Name:        "old-name",
		Kind:        "Asset",
		Description: "",
		Mode:        "normal",
	}
	desired := &manifest.Asset{
		Name:        "new-name",
		Kind:        "Device",
		Description: &desc,
		Mode:        "maintenance",
	}

	ops := Diff(original, desired, schema.Default(), false)

	require.Len(t, ops, 4)
	assert.Equal(t, Op{Kind: SetProperty, Property: "name", Value: "new-name"}, ops[0])
	assert.Equal(t, Op{Kind: SetProperty, Property: "kind", Value: "Device"}, ops[1])
	assert.Equal(t, Op{Kind: SetProperty, Property: "description", Value: "edge router"}, ops[2])
	assert.Equal(t, Op{Kind: SetProperty, Property: "mode", Value: "maintenance"}, ops[3])
}

// Absent desired fields leave the remote value untouched, never reset it.
func TestDiffAbsentFieldsUntouched(t *testing.T) {
	desc := "kept"
	original := &inventory.Asset{
		ID:          5,
		Name:        "web-1",
		Kind:        "Service",
		Description: desc,
		Mode:        "disabled",
		Labels:      []int64{1, 2},
		Collectors:  []inventory.CollectorState{{Key: "ping"}},
	}
	desired := &manifest.Asset{Name: "web-1"}

	assert.Empty(t, Diff(original, desired, schema.Default(), false))
}

// A fresh asset starts from the service-side defaults, so a desired kind
// of Asset and mode of normal emit nothing after the create.
func TestDiffCreateUsesServiceDefaults(t *testing.T) {
	desired := &manifest.Asset{Name: "h1", Kind: "Asset", Mode: "normal"}

	ops := Diff(nil, desired, schema.Default(), false)

	require.Len(t, ops, 1)
	assert.Equal(t, CreateAsset, ops[0].Kind)
}

func TestDiffCollectors(t *testing.T) {
	original := &inventory.Asset{
		ID:   9,
		Name: "web-1",
		Kind: "Host",
		Mode: "normal",
		Collectors: []inventory.CollectorState{
			{Key: "ping", Config: map[string]any{"interval": 60.0, "timeout": 5.0}},
			{Key: "uptime"},
			{Key: "dns", Config: map[string]any{"nameServers": []any{}}},
		},
	}
	desired := &manifest.Asset{
		Name: "web-1",
		Collectors: []manifest.Collector{
			{Key: "ping", Config: map[string]any{"interval": 30}},
			{Key: "tcp", Config: map[string]any{"checkPorts": []any{443}}},
		},
	}

	ops := Diff(original, desired, schema.Default(), false)

	assert.Equal(t, []Kind{UpdateCollector, AddCollector, RemoveCollector, RemoveCollector}, kinds(ops))
	assert.Equal(t, "ping", ops[0].Key)
	assert.Equal(t, "tcp", ops[1].Key)
	// Removals come in remote order.
	assert.Equal(t, "uptime", ops[2].Key)
	assert.Equal(t, "dns", ops[3].Key)
}

// The observed config comes back default-expanded; a desired collector
// omitting its config entirely matches an all-default original.
func TestDiffDefaultConfigIsNoChange(t *testing.T) {
	original := &inventory.Asset{
		ID:   3,
		Name: "web-1",
		Kind: "Asset",
		Mode: "normal",
		Collectors: []inventory.CollectorState{
			{Key: "tcp", Config: map[string]any{"checkPorts": []any{}, "timeout": 5.0}},
		},
	}
	desired := &manifest.Asset{
		Name:       "web-1",
		Collectors: []manifest.Collector{{Key: "tcp"}},
	}

	assert.Empty(t, Diff(original, desired, schema.Default(), false))
}

func TestDiffUnknownCollectorStructuralEquality(t *testing.T) {
	original := &inventory.Asset{
		ID:   3,
		Name: "web-1",
		Kind: "Asset",
		Mode: "normal",
		Collectors: []inventory.CollectorState{
			{Key: "netflow", Config: map[string]any{"port": 2055.0}},
		},
	}

	same := &manifest.Asset{
		Name:       "web-1",
		Collectors: []manifest.Collector{{Key: "netflow", Config: map[string]any{"port": 2055}}},
	}
	assert.Empty(t, Diff(original, same, schema.Default(), false))

	changed := &manifest.Asset{
		Name:       "web-1",
		Collectors: []manifest.Collector{{Key: "netflow", Config: map[string]any{"port": 9995}}},
	}
	ops := Diff(original, changed, schema.Default(), false)
	assert.Equal(t, []Kind{UpdateCollector}, kinds(ops))
}

func TestDiffLabels(t *testing.T) {
	original := &inventory.Asset{
		ID:     7,
		Name:   "web-1",
		Kind:   "Asset",
		Mode:   "normal",
		Labels: []int64{1, 2},
	}
	desired := &manifest.Asset{
		Name:   "web-1",
		Labels: []any{int64(2), int64(3)},
	}

	ops := Diff(original, desired, schema.Default(), false)

	require.Len(t, ops, 2)
	assert.Equal(t, Op{Kind: AddLabel, LabelID: 3}, ops[0])
	assert.Equal(t, Op{Kind: RemoveLabel, LabelID: 1}, ops[1])
}

// Descriptors with no labels key never produce label operations.
func TestDiffNoLabelsKeyNeverTouchesLabels(t *testing.T) {
	original := &inventory.Asset{
		ID:     7,
		Name:   "web-1",
		Kind:   "Asset",
		Mode:   "normal",
		Labels: []int64{1, 2, 3},
	}
	desired := &manifest.Asset{Name: "web-1"}

	for _, op := range Diff(original, desired, schema.Default(), false) {
		assert.NotEqual(t, AddLabel, op.Kind)
		assert.NotEqual(t, RemoveLabel, op.Kind)
	}
}

// An explicitly empty labels list means "remove them all".
func TestDiffEmptyLabelsListRemovesAll(t *testing.T) {
	original := &inventory.Asset{
		ID:     7,
		Name:   "web-1",
		Kind:   "Asset",
		Mode:   "normal",
		Labels: []int64{1, 2},
	}
	desired := &manifest.Asset{Name: "web-1", Labels: []any{}}

	ops := Diff(original, desired, schema.Default(), false)
	assert.Equal(t, []Kind{RemoveLabel, RemoveLabel}, kinds(ops))
}

func TestDiffAddOnlySuppressesRemovals(t *testing.T) {
	original := &inventory.Asset{
		ID:     7,
		Name:   "web-1",
		Kind:   "Asset",
		Mode:   "normal",
		Labels: []int64{1, 2},
		Collectors: []inventory.CollectorState{
			{Key: "uptime"},
		},
	}
	desired := &manifest.Asset{
		Name:       "web-1",
		Labels:     []any{int64(3)},
		Collectors: []manifest.Collector{{Key: "ping"}},
	}

	ops := Diff(original, desired, schema.Default(), true)

	assert.Equal(t, []Kind{AddCollector, AddLabel}, kinds(ops))
}

func TestDiffFixedOrder(t *testing.T) {
	original := &inventory.Asset{
		ID:     7,
		Name:   "web-1",
		Kind:   "Asset",
		Mode:   "normal",
		Labels: []int64{9},
		Collectors: []inventory.CollectorState{
			{Key: "uptime"},
		},
	}
	desired := &manifest.Asset{
		Name:       "web-1",
		Mode:       "maintenance",
		Labels:     []any{int64(4)},
		Collectors: []manifest.Collector{{Key: "ping"}},
	}

	ops := Diff(original, desired, schema.Default(), false)

	assert.Equal(t, []Kind{
		SetProperty,
		AddCollector,
		RemoveCollector,
		AddLabel,
		RemoveLabel,
	}, kinds(ops))
}

// Diff never mutates its inputs.
func TestDiffPure(t *testing.T) {
	original := &inventory.Asset{
		ID:         7,
		Name:       "web-1",
		Kind:       "Asset",
		Mode:       "normal",
		Labels:     []int64{1},
		Collectors: []inventory.CollectorState{{Key: "uptime"}},
	}
	desired := &manifest.Asset{
		Name:       "web-1",
		Labels:     []any{int64(2)},
		Collectors: []manifest.Collector{{Key: "ping"}},
	}

	first := Diff(original, desired, schema.Default(), false)
	second := Diff(original, desired, schema.Default(), false)

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{1}, original.Labels)
	assert.Equal(t, []any{int64(2)}, desired.Labels)
}
