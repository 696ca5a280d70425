// Package manifest defines the declarative asset manifest, its strict
// YAML loading, and the validator that normalizes a manifest in place
// before reconciliation.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the root document. All fields are optional; any key outside
// this fixed set is rejected at load time.
type Manifest struct {
	// Container is the target container id. Resolved remotely when absent.
	Container *int64 `yaml:"container,omitempty"`

	// Token is the API credential. Prompted for interactively when absent.
	Token string `yaml:"token,omitempty"`

	// Labels maps label names to label ids. Asset label references are
	// resolved against this mapping during validation.
	Labels map[string]int64 `yaml:"labels,omitempty"`

	// Configs holds named collector configs reusable by reference.
	Configs map[string]map[string]any `yaml:"configs,omitempty"`

	// Assets is the ordered list of desired assets. Order determines
	// application order.
	Assets []*Asset `yaml:"assets,omitempty"`
}

// Asset describes one desired asset. At least one of ID and Name is
// required. Absent optional fields mean "leave unchanged" during
// reconciliation, never "remove".
type Asset struct {
	ID          *int64      `yaml:"id,omitempty"`
	Name        string      `yaml:"name,omitempty"`
	Kind        string      `yaml:"kind,omitempty"`
	Description *string     `yaml:"description,omitempty"`
	Mode        string      `yaml:"mode,omitempty"`
	Labels      []any       `yaml:"labels,omitempty"`
	Collectors  []Collector `yaml:"collectors,omitempty"`
}

// Collector describes one desired collector. Config may be written as a
// named reference into Manifest.Configs (a string), an inline mapping, or
// omitted. After validation it is either nil or a schema-checked mapping.
type Collector struct {
	Key    string `yaml:"key"`
	Config any    `yaml:"config,omitempty"`
}

// Ident names an asset for error messages: the name when present,
// otherwise "id <n>".
func (a *Asset) Ident() string {
	if a.Name != "" {
		return fmt.Sprintf("%q", a.Name)
	}
	if a.ID != nil {
		return fmt.Sprintf("id %d", *a.ID)
	}
	return "(unidentified)"
}

// LabelIDs returns the asset's label ids. Only meaningful after
// validation, when every entry has been resolved to an integer id.
func (a *Asset) LabelIDs() []int64 {
	ids := make([]int64, 0, len(a.Labels))
	for _, l := range a.Labels {
		switch v := l.(type) {
		case int64:
			ids = append(ids, v)
		case int:
			ids = append(ids, int64(v))
		}
	}
	return ids
}

// ConfigMap returns the collector's config as a mapping. Only meaningful
// after validation, when string references have been resolved and empty
// configs normalized to nil.
func (c *Collector) ConfigMap() map[string]any {
	if m, ok := c.Config.(map[string]any); ok {
		return m
	}
	return nil
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document. Decoding is strict: unknown keys at
// any level are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &Manifest{}, nil
		}
		return nil, &Error{Message: err.Error()}
	}
	return &m, nil
}

// Marshal serializes the manifest back to YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
