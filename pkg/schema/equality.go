package schema

// ExpandDefaults returns the config with every declared property that is
// absent filled in with its schema default. Expansion is one level deep:
// defaults are whole values, never merged into nested structures. The
// input map is not modified; a nil config expands to the all-default
// config (or stays nil when the schema declares no properties).
func ExpandDefaults(s Schema, config map[string]any) map[string]any {
	if s.Variant != Checked || len(s.Properties) == 0 {
		return config
	}
	expanded := make(map[string]any, len(s.Properties))
	for k, v := range config {
		expanded[k] = v
	}
	for _, p := range s.Properties {
		if _, ok := expanded[p.Name]; !ok {
			expanded[p.Name] = p.Default
		}
	}
	return expanded
}

// ConfigEqual reports whether two collector configs are equivalent under
// the schema. For checked schemas both sides are expanded with defaults
// first, so an absent property equals an explicitly-default one. For
// no-config and unchecked schemas the comparison is direct structural
// equality.
func ConfigEqual(s Schema, a, b map[string]any) bool {
	if s.Variant == Checked {
		a = ExpandDefaults(s, a)
		b = ExpandDefaults(s, b)
	}
	return mapEqual(a, b)
}

func mapEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

// valueEqual compares scalars, lists, and mappings structurally. Numbers
// are compared by value regardless of Go type, since YAML decodes whole
// numbers as int while the inventory API returns float64.
func valueEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && mapEqual(av, bv)
	case nil:
		return b == nil
	default:
		return a == b
	}
}
