package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"goldenapi/internal/api"

	"gopkg.in/yaml.v3"
)

// Descriptor is the on-disk description of the API surface.
type Descriptor struct {
	// KnownValues overrides or extends DefaultKnownValues
	KnownValues map[string]string `yaml:"knownValues,omitempty"`
	// Classes lists the declaring classes in the order they are enumerated
	Classes []ClassDescriptor `yaml:"classes"`
}

// ClassDescriptor describes one declaring class.
type ClassDescriptor struct {
	// Class is the declaring class name, e.g. Piwik\Plugins\Actions\API
	Class string `yaml:"class"`
	// Module is the public module name; derived from Class when empty
	Module string `yaml:"module,omitempty"`
	// Methods lists the methods in declaration order
	Methods []MethodDescriptor `yaml:"methods"`
}

// MethodDescriptor describes one method of a class.
type MethodDescriptor struct {
	Name       string                  `yaml:"name"`
	Parameters []api.ParameterMetadata `yaml:"parameters,omitempty"`
	// Example set to false marks the method as having no example request
	Example *bool `yaml:"example,omitempty"`
}

// LoadFile reads and validates a descriptor from a YAML file.
func LoadFile(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}

	reg, err := Load(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor %s: %w", path, err)
	}
	return reg, nil
}

// Load decodes a descriptor from YAML. Unknown keys are rejected.
func Load(r io.Reader) (*Registry, error) {
	var desc Descriptor

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return New(desc)
}

// validate checks that names are present and unique.
func (d Descriptor) validate() error {
	classes := make(map[string]bool)
	for i, c := range d.Classes {
		if strings.TrimSpace(c.Class) == "" {
			return fmt.Errorf("classes[%d]: class name is required", i)
		}
		if classes[c.Class] {
			return fmt.Errorf("class %s declared more than once", c.Class)
		}
		classes[c.Class] = true

		methods := make(map[string]bool)
		for j, m := range c.Methods {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("class %s: methods[%d]: method name is required", c.Class, j)
			}
			if methods[m.Name] {
				return fmt.Errorf("class %s: method %s declared more than once", c.Class, m.Name)
			}
			methods[m.Name] = true

			params := make(map[string]bool)
			for _, p := range m.Parameters {
				if strings.TrimSpace(p.Name) == "" {
					return fmt.Errorf("class %s: method %s: parameter name is required", c.Class, m.Name)
				}
				if params[p.Name] {
					return fmt.Errorf("class %s: method %s: parameter %s declared more than once", c.Class, m.Name, p.Name)
				}
				params[p.Name] = true
			}
		}
	}
	return nil
}

// ModuleFromClass derives the public module name from a declaring class.
// "Piwik\Plugins\Actions\API" yields "Actions"; otherwise the last
// namespace segment is used.
func ModuleFromClass(class string) string {
	parts := strings.FieldsFunc(class, func(r rune) bool { return r == '\\' || r == '/' || r == '.' })
	if len(parts) == 0 {
		return class
	}
	if len(parts) >= 2 && parts[len(parts)-1] == "API" {
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}
