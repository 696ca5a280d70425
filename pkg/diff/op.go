// Package diff computes the minimal ordered operation list that turns an
// observed remote asset into its desired manifest description.
package diff

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates the operation kinds.
type Kind string

const (
	CreateAsset     Kind = "create-asset"
	SetProperty     Kind = "set-property"
	AddCollector    Kind = "add-collector"
	UpdateCollector Kind = "update-collector"
	RemoveCollector Kind = "remove-collector"
	AddLabel        Kind = "add-label"
	RemoveLabel     Kind = "remove-label"
)

// Op is one intended mutation against a single asset. Operations are
// derived per reconciliation pass and never persisted.
type Op struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Name is the asset name for create-asset.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Property and Value describe a set-property operation.
	Property string `json:"property,omitempty" yaml:"property,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`

	// Key and Config describe collector operations.
	Key    string         `json:"key,omitempty" yaml:"key,omitempty"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`

	// LabelID describes label operations.
	LabelID int64 `json:"labelId,omitempty" yaml:"labelId,omitempty"`
}

// String renders the operation for human-readable reports.
func (o Op) String() string {
	switch o.Kind {
	case CreateAsset:
		return fmt.Sprintf("create asset %q", o.Name)
	case SetProperty:
		return fmt.Sprintf("set %s = %v", o.Property, o.Value)
	case AddCollector:
		if len(o.Config) == 0 {
			return fmt.Sprintf("add collector %s", o.Key)
		}
		return fmt.Sprintf("add collector %s %s", o.Key, renderConfig(o.Config))
	case UpdateCollector:
		return fmt.Sprintf("update collector %s %s", o.Key, renderConfig(o.Config))
	case RemoveCollector:
		return fmt.Sprintf("remove collector %s", o.Key)
	case AddLabel:
		return fmt.Sprintf("add label %d", o.LabelID)
	case RemoveLabel:
		return fmt.Sprintf("remove label %d", o.LabelID)
	}
	return string(o.Kind)
}

func renderConfig(cfg map[string]any) string {
	parts := make([]string, 0, len(cfg))
	for k, v := range cfg {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	// Deterministic output keeps reports and tests stable.
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
