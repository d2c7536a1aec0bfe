package api

import (
	"net/url"
	"sort"
	"strings"
)

// Operation identifies one callable read-style entry point on the API surface.
type Operation struct {
	// Class is the declaring class as reported by the metadata provider
	Class string
	// Module is the public module name derived from the declaring class
	Module string
	// Method is the method name within the module
	Method string
}

// ID returns the fully qualified "Module.method" identifier.
func (o Operation) ID() string {
	return o.Module + "." + o.Method
}

// String implements fmt.Stringer.
func (o Operation) String() string {
	return o.ID()
}

// ParameterMetadata describes one declared parameter of an API method.
type ParameterMetadata struct {
	// Name is the request parameter name
	Name string `yaml:"name"`
	// Default is the default value; nil means the parameter is required
	Default *string `yaml:"default,omitempty"`
}

// Required reports whether the parameter has no default value.
func (p ParameterMetadata) Required() bool {
	return p.Default == nil
}

// MethodMetadata describes a single API method as declared by its class.
type MethodMetadata struct {
	// Name is the method name
	Name string `yaml:"name"`
	// Parameters lists the declared parameters in declaration order
	Parameters []ParameterMetadata `yaml:"parameters,omitempty"`
	// NoExample marks methods for which no example request can be rendered
	NoExample bool `yaml:"-"`
}

// HasParameter reports whether the method declares the named parameter.
func (m MethodMetadata) HasParameter(name string) bool {
	for _, p := range m.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ClassMetadata groups the methods declared by one class, in declaration order.
type ClassMetadata struct {
	Class   string
	Methods []MethodMetadata
}

// Params is a resolved request parameter set (name -> value).
type Params map[string]string

// Clone returns an independent copy of the parameter set.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into p, overwriting existing keys.
func (p Params) Merge(other map[string]string) {
	for k, v := range other {
		p[k] = v
	}
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders the parameters as a query string with sorted keys.
func (p Params) Encode() string {
	values := url.Values{}
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

// Method returns the "Module.method" the parameters address, if any.
func (p Params) Method() string {
	return p["method"]
}

// ParseQuery converts a rendered query string (with or without a leading
// "?") into Params. Repeated keys keep their last value.
func ParseQuery(query string) (Params, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return nil, err
	}
	params := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[len(v)-1]
		}
	}
	return params, nil
}
