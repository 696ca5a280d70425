package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// asFloat converts YAML/JSON scalar numbers to float64. YAML decodes whole
// numbers as int and JSON as float64, so both must be accepted.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// asInt converts YAML/JSON scalar numbers to int64, rejecting fractional
// floats.
func asInt(v any) (int64, bool) {
	f, ok := asFloat(v)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// FloatRange validates a numeric property in the half-open interval
// (min, max].
func FloatRange(min, max float64) ValidatorFunc {
	return func(value any, collector, property string) error {
		f, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("collector %q: property %q must be a number, got %T", collector, property, value)
		}
		if f <= min || f > max {
			return fmt.Errorf("collector %q: property %q must be in (%g, %g], got %g", collector, property, min, max, f)
		}
		return nil
	}
}

// PortList validates a list of unique TCP/UDP port numbers in [1, 65535].
func PortList() ValidatorFunc {
	return func(value any, collector, property string) error {
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("collector %q: property %q must be a list of ports, got %T", collector, property, value)
		}
		seen := make(map[int64]bool, len(list))
		for _, item := range list {
			port, ok := asInt(item)
			if !ok {
				return fmt.Errorf("collector %q: property %q entries must be integers, got %v", collector, property, item)
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("collector %q: property %q port %d out of range [1, 65535]", collector, property, port)
			}
			if seen[port] {
				return fmt.Errorf("collector %q: property %q contains duplicate port %d", collector, property, port)
			}
			seen[port] = true
		}
		return nil
	}
}

// AddressList validates a list of non-empty, whitespace-free address strings.
func AddressList() ValidatorFunc {
	return func(value any, collector, property string) error {
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("collector %q: property %q must be a list of addresses, got %T", collector, property, value)
		}
		for _, item := range list {
			addr, ok := item.(string)
			if !ok {
				return fmt.Errorf("collector %q: property %q entries must be strings, got %v", collector, property, item)
			}
			if addr == "" || strings.ContainsAny(addr, " \t\n") {
				return fmt.Errorf("collector %q: property %q address %q must be non-empty without whitespace", collector, property, addr)
			}
		}
		return nil
	}
}

var uriPattern = regexp.MustCompile(`^https?://\S+$`)

// URIList validates a list of http(s) URIs.
func URIList() ValidatorFunc {
	return func(value any, collector, property string) error {
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("collector %q: property %q must be a list of URIs, got %T", collector, property, value)
		}
		for _, item := range list {
			uri, ok := item.(string)
			if !ok {
				return fmt.Errorf("collector %q: property %q entries must be strings, got %v", collector, property, item)
			}
			if !uriPattern.MatchString(uri) {
				return fmt.Errorf("collector %q: property %q URI %q must start with http:// or https://", collector, property, uri)
			}
		}
		return nil
	}
}
