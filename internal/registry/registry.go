package registry

import (
	"fmt"
	"net/url"
	"strings"

	"goldenapi/internal/api"
	"goldenapi/internal/template"
	"goldenapi/pkg/logging"
)

// DefaultKnownValues are the example values used for parameters the caller
// did not set.
var DefaultKnownValues = map[string]string{
	"access":         "view",
	"userLogin":      "test",
	"passwordMd5ied": "passwordExample",
	"email":          "test@example.org",
	"languageCode":   "fr",
	"url":            "http://forum.piwik.org/",
	"pageUrl":        "http://forum.piwik.org/",
	"apiModule":      "UserCountry",
	"apiAction":      "getCountry",
	"lastMinutes":    "30",
	"abandonedCarts": "0",
	"segmentName":    "pageTitle",
	"ip":             "194.57.91.215",
	"idSites":        "1,2",
	"idAlert":        "1",
	"seconds":        "3600",
}

// noExampleMethods mutate state and never get an example request.
var noExampleMethods = map[string]bool{
	"deleteSite":       true,
	"addSite":          true,
	"updateSite":       true,
	"addSiteAliasUrls": true,
	"deleteUser":       true,
	"addUser":          true,
	"updateUser":       true,
	"setUserAccess":    true,
	"addGoal":          true,
	"updateGoal":       true,
	"deleteGoal":       true,
}

// genericParameters can be set on every method and are appended to the
// example when a value is known.
var genericParameters = []string{
	"format",
	"hideIdSubDatable",
	"serialize",
	"language",
	"translateColumnNames",
	"label",
	"flat",
	"include_aggregate_rows",
	"idSubtable",
}

// Registry is the queryable operation registry. It is built once at startup
// and is read-only afterwards.
type Registry struct {
	classes     []api.ClassMetadata
	modules     map[string]string
	methods     map[string]map[string]api.MethodMetadata
	knownValues map[string]string
	engine      *template.Engine
}

// New builds a registry from a descriptor.
func New(desc Descriptor) (*Registry, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		modules:     make(map[string]string, len(desc.Classes)),
		methods:     make(map[string]map[string]api.MethodMetadata, len(desc.Classes)),
		knownValues: template.MergeContexts(DefaultKnownValues, desc.KnownValues),
		engine:      template.New(),
	}

	for _, c := range desc.Classes {
		module := c.Module
		if module == "" {
			module = ModuleFromClass(c.Class)
		}
		r.modules[c.Class] = module

		meta := api.ClassMetadata{Class: c.Class}
		byName := make(map[string]api.MethodMetadata, len(c.Methods))
		for _, m := range c.Methods {
			method := api.MethodMetadata{
				Name:       m.Name,
				Parameters: m.Parameters,
				NoExample:  m.Example != nil && !*m.Example,
			}
			meta.Methods = append(meta.Methods, method)
			byName[m.Name] = method
		}
		r.classes = append(r.classes, meta)
		r.methods[c.Class] = byName
	}

	logging.Debug("Registry", "Loaded %d classes", len(r.classes))
	return r, nil
}

// ListOperations implements api.MetadataProvider.
func (r *Registry) ListOperations() []api.ClassMetadata {
	out := make([]api.ClassMetadata, len(r.classes))
	copy(out, r.classes)
	return out
}

// ModuleNameFor implements api.MetadataProvider.
func (r *Registry) ModuleNameFor(class string) string {
	if module, ok := r.modules[class]; ok {
		return module
	}
	return ModuleFromClass(class)
}

// Method returns the metadata of class.method.
func (r *Registry) Method(class, method string) (api.MethodMetadata, bool) {
	m, ok := r.methods[class][method]
	return m, ok
}

// RenderExampleURL implements api.MetadataProvider. The returned query string
// starts with "?" and lists module, method, the declared parameters and the
// generic parameters that have a known value, in that order.
func (r *Registry) RenderExampleURL(class, method string, params api.Params) (string, *api.Skip) {
	module := r.ModuleNameFor(class)
	id := module + "." + method

	meta, ok := r.Method(class, method)
	if !ok {
		return "", &api.Skip{ID: id, Reason: api.SkipMissingParameter, Detail: "method not declared"}
	}
	if meta.NoExample || noExampleMethods[method] {
		return "", &api.Skip{ID: id, Reason: api.SkipNoExample}
	}

	known := template.MergeContexts(r.knownValues, params)

	pairs := [][2]string{{"module", "API"}, {"method", id}}
	for _, p := range meta.Parameters {
		if value, ok := known[p.Name]; ok {
			pairs = append(pairs, [2]string{p.Name, value})
			continue
		}
		if p.Required() {
			return "", &api.Skip{ID: id, Reason: api.SkipMissingParameter, Detail: p.Name}
		}

		value := *p.Default
		if r.engine.HasTemplates(value) {
			rendered, err := r.engine.Render(value, known)
			if err != nil {
				return "", &api.Skip{ID: id, Reason: api.SkipMissingParameter, Detail: fmt.Sprintf("%s: %v", p.Name, err)}
			}
			value = rendered
		}
		pairs = append(pairs, [2]string{p.Name, value})
	}

	for _, name := range genericParameters {
		if meta.HasParameter(name) {
			continue
		}
		if value, ok := params[name]; ok {
			pairs = append(pairs, [2]string{name, value})
		}
	}

	var b strings.Builder
	b.WriteByte('?')
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair[1]))
	}
	return b.String(), nil
}
