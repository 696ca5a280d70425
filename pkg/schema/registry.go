// Package schema defines the collector configuration schemas: which
// collectors exist, which properties their configs may carry, how each
// property is validated, and what value is implied when a property is
// absent. The registry is immutable configuration data built once at
// startup and passed explicitly to the validator and differ.
package schema

import "sort"

// ValidatorFunc checks a single configured property value. The collector
// key and property name are passed through so the error message can name
// the offending location.
type ValidatorFunc func(value any, collector, property string) error

// Property describes one allowed config property of a collector.
type Property struct {
	// Name is the property key as written in the manifest.
	Name string

	// Validate checks the configured value, or the default when absent.
	Validate ValidatorFunc

	// Default is the value the service assumes when the property is
	// not configured. Used for default-expanded config equality.
	Default any
}

// Variant distinguishes the three kinds of schema entries.
type Variant int

const (
	// NoConfig means the collector accepts no configuration at all;
	// any non-empty config is a validation error.
	NoConfig Variant = iota

	// Checked means the config keys must be a subset of the declared
	// properties and every value must pass its validator.
	Checked

	// Unchecked means any config is accepted as-is. Used for unknown
	// collectors when the operator explicitly allows them.
	Unchecked
)

// Schema is the entry for one collector key.
type Schema struct {
	Variant    Variant
	Properties []Property
}

// Property returns the declared property with the given name.
func (s Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// UncheckedSchema is the entry applied to collectors outside the registry
// when unknown collectors are allowed.
func UncheckedSchema() Schema {
	return Schema{Variant: Unchecked}
}

// Registry maps collector key to its schema. Immutable after construction.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry builds a registry from the given entries. The map is copied.
func NewRegistry(entries map[string]Schema) Registry {
	schemas := make(map[string]Schema, len(entries))
	for k, v := range entries {
		schemas[k] = v
	}
	return Registry{schemas: schemas}
}

// Lookup returns the schema registered for the collector key.
func (r Registry) Lookup(key string) (Schema, bool) {
	s, ok := r.schemas[key]
	return s, ok
}

// Keys returns the registered collector keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in collector registry.
func Default() Registry {
	return NewRegistry(map[string]Schema{
		"ping": {
			Variant: Checked,
			Properties: []Property{
				{Name: "interval", Validate: FloatRange(0, 3600), Default: 60.0},
				{Name: "timeout", Validate: FloatRange(0, 60), Default: 5.0},
			},
		},
		"tcp": {
			Variant: Checked,
			Properties: []Property{
				{Name: "checkPorts", Validate: PortList(), Default: []any{}},
				{Name: "timeout", Validate: FloatRange(0, 60), Default: 5.0},
			},
		},
		"dns": {
			Variant: Checked,
			Properties: []Property{
				{Name: "nameServers", Validate: AddressList(), Default: []any{}},
			},
		},
		"http": {
			Variant: Checked,
			Properties: []Property{
				{Name: "uris", Validate: URIList(), Default: []any{}},
				{Name: "timeout", Validate: FloatRange(0, 60), Default: 10.0},
			},
		},
		"uptime": {
			Variant: NoConfig,
		},
	})
}
