package manifest

import (
	"fmt"

	"github.com/probelab/invctl/pkg/schema"
)

// Options control validation leniency.
type Options struct {
	// AllowUnknownCollectors accepts collector keys outside the registry;
	// their configs pass through unchecked.
	AllowUnknownCollectors bool

	// AllowUnknownKinds accepts asset kinds outside the fixed vocabulary.
	AllowUnknownKinds bool
}

// Validate checks the manifest against the collector registry and
// normalizes it in place: label names become label ids, named config
// references become inline mappings, and empty configs become nil. It
// stops at the first violation and returns a *Error naming the offending
// asset, collector, or property.
//
// Structural rules (unknown keys, field types) are already enforced by
// the strict decoder in Parse; this covers the semantic rules.
func Validate(m *Manifest, reg schema.Registry, opts Options) error {
	for i, a := range m.Assets {
		if a == nil {
			return errf("", "assets[%d]: empty entry", i)
		}
		if err := validateAsset(m, a, i, reg, opts); err != nil {
			return err
		}
	}
	return nil
}

func validateAsset(m *Manifest, a *Asset, index int, reg schema.Registry, opts Options) error {
	ctx := fmt.Sprintf("asset %s", a.Ident())
	if a.ID == nil && a.Name == "" {
		return errf(fmt.Sprintf("assets[%d]", index), "needs an id or a name")
	}
	if a.Mode != "" && !schema.ValidMode(a.Mode) {
		return errf(ctx, "invalid mode %q (want one of %v)", a.Mode, schema.Modes)
	}
	if a.Kind != "" && !schema.ValidKind(a.Kind) && !opts.AllowUnknownKinds {
		return errf(ctx, "unknown kind %q (want one of %v)", a.Kind, schema.Kinds)
	}

	for j, l := range a.Labels {
		switch v := l.(type) {
		case int:
			a.Labels[j] = int64(v)
		case int64:
			// already an id, nothing to resolve
		case string:
			id, ok := m.Labels[v]
			if !ok {
				return errf(ctx, "label %q is not defined in the manifest's labels mapping", v)
			}
			a.Labels[j] = id
		default:
			return errf(ctx, "label entry %v must be a name or an id", l)
		}
	}

	for j := range a.Collectors {
		if err := validateCollector(m, &a.Collectors[j], ctx, reg, opts); err != nil {
			return err
		}
	}
	return nil
}

func validateCollector(m *Manifest, c *Collector, assetCtx string, reg schema.Registry, opts Options) error {
	if c.Key == "" {
		return errf(assetCtx, "collector needs a key")
	}
	ctx := fmt.Sprintf("%s collector %q", assetCtx, c.Key)

	entry, known := reg.Lookup(c.Key)
	if !known {
		if !opts.AllowUnknownCollectors {
			return errf(ctx, "unknown collector key (known: %v)", reg.Keys())
		}
		entry = schema.UncheckedSchema()
	}

	// Resolve a named config reference, copying the value in.
	if name, ok := c.Config.(string); ok {
		ref, ok := m.Configs[name]
		if !ok {
			return errf(ctx, "named config %q is not defined in the manifest's configs mapping", name)
		}
		c.Config = copyConfig(ref)
	}

	var cfg map[string]any
	switch v := c.Config.(type) {
	case nil:
	case map[string]any:
		if len(v) == 0 {
			c.Config = nil
		} else {
			cfg = v
		}
	default:
		return errf(ctx, "config must be a mapping or a named config reference, got %T", c.Config)
	}

	switch entry.Variant {
	case schema.NoConfig:
		if cfg != nil {
			return errf(ctx, "collector does not accept configuration")
		}
	case schema.Unchecked:
		// accepted as-is
	case schema.Checked:
		for key := range cfg {
			if _, ok := entry.Property(key); !ok {
				return errf(ctx, "unknown config property %q", key)
			}
		}
		for _, p := range entry.Properties {
			value, present := cfg[p.Name]
			if !present {
				value = p.Default
			}
			if err := p.Validate(value, c.Key, p.Name); err != nil {
				return errf(assetCtx, "%s", err.Error())
			}
		}
	}
	return nil
}

// copyConfig deep-copies a named config so later mutation of the manifest
// entry cannot alias the shared value.
func copyConfig(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyConfig(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
