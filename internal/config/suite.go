package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"goldenapi/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Suite is one suite file: a test name and the cases run under it.
type Suite struct {
	// Name becomes the test name "test_<Name>" in artifact file names
	Name string `yaml:"name"`
	// Description is free text shown in listings
	Description string `yaml:"description,omitempty"`
	// Cases are the runApiTests calls of the suite, in order
	Cases []Case `yaml:"cases"`
	// Rounding overrides the normalizer's rounding table
	Rounding []RewriteRule `yaml:"rounding,omitempty"`
	// ScheduledReports appends the generateReport cases of one date and period
	ScheduledReports *ScheduledReports `yaml:"scheduledReports,omitempty"`

	// Path is the file the suite was loaded from
	Path string `yaml:"-"`
}

// TestName is the name artifacts of this suite are stored under.
func (s Suite) TestName() string {
	return "test_" + s.Name
}

// Case is one runApiTests call.
type Case struct {
	Name          string                 `yaml:"name,omitempty"`
	API           APISelector            `yaml:"api"`
	SkipOnCI      bool                   `yaml:"skipOnCI,omitempty"`
	SkipOnAdapter string                 `yaml:"skipOnAdapter,omitempty"`
	Options       map[string]interface{} `yaml:"options"`

	// Config is the validated form of Options
	Config *TestConfiguration `yaml:"-"`
}

// DisplayName returns the case name, or a positional name when unnamed.
func (c Case) DisplayName(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("case-%d", index+1)
}

// APISelector is "all", a single module or id, or a list of them.
type APISelector []string

// UnmarshalYAML accepts a scalar or a sequence.
func (a *APISelector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = APISelector{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = APISelector(list)
		return nil
	default:
		return fmt.Errorf("line %d: api must be a string or a list of strings", node.Line)
	}
}

// RewriteRule is one literal or regular-expression rewrite.
type RewriteRule struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
	Regex   bool   `yaml:"regex,omitempty"`
}

// LoadSuites loads every suite at path, which is a suite file or a directory
// walked for YAML files.
func LoadSuites(path string) ([]Suite, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigurationError{
			FilePath:    path,
			Message:     "suite path does not exist",
			Suggestions: []string{"Pass a suite file or a directory of suite files with --suite"},
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat suite path: %w", err)
	}

	if !info.IsDir() {
		suite, err := LoadSuiteFile(path)
		if err != nil {
			return nil, err
		}
		return []Suite{*suite}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLFile(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
	}
	sort.Strings(files)

	suites := make([]Suite, 0, len(files))
	names := make(map[string]string, len(files))
	for _, f := range files {
		suite, err := LoadSuiteFile(f)
		if err != nil {
			return nil, err
		}
		if other, ok := names[suite.Name]; ok {
			return nil, &ConfigurationError{
				FilePath: f,
				Message:  fmt.Sprintf("suite name '%s' is already used by %s", suite.Name, other),
			}
		}
		names[suite.Name] = f
		suites = append(suites, *suite)
	}

	logging.Debug("SuiteLoader", "Loaded %d suites from %s", len(suites), path)
	return suites, nil
}

// LoadSuiteFile loads and validates a single suite file.
func LoadSuiteFile(path string) (*Suite, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}
	suite, err := ParseSuite(bytes.NewReader(content))
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.FilePath = path
			return nil, ce
		}
		return nil, &ConfigurationError{FilePath: path, Message: err.Error()}
	}
	suite.Path = path
	return suite, nil
}

// ParseSuite decodes a suite and validates every case's options.
func ParseSuite(r io.Reader) (*Suite, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigurationError{Message: "suite file is empty"}
		}
		return nil, &ConfigurationError{Message: fmt.Sprintf("failed to parse suite YAML: %v", err)}
	}

	if strings.TrimSpace(suite.Name) == "" {
		return nil, &ConfigurationError{Key: "name", Message: "suite name is required"}
	}
	if suite.ScheduledReports != nil {
		if err := suite.ScheduledReports.validate(); err != nil {
			return nil, err
		}
		suite.Cases = append(suite.Cases, suite.ScheduledReports.Cases()...)
	}
	if len(suite.Cases) == 0 {
		return nil, &ConfigurationError{Message: "suite must have at least one case"}
	}

	seen := make(map[string]bool, len(suite.Cases))
	for i := range suite.Cases {
		c := &suite.Cases[i]
		if c.Name != "" {
			if seen[c.Name] {
				return nil, &ConfigurationError{Message: fmt.Sprintf("duplicate case name '%s'", c.Name)}
			}
			seen[c.Name] = true
		}
		if len(c.API) == 0 {
			return nil, &ConfigurationError{Key: "api", Message: fmt.Sprintf("%s: api is required", c.DisplayName(i))}
		}
		cfg, err := New(c.Options)
		if err != nil {
			var ce *ConfigurationError
			if errors.As(err, &ce) {
				ce.Message = fmt.Sprintf("%s: %s", c.DisplayName(i), ce.Message)
			}
			return nil, err
		}
		c.Config = cfg
	}

	for i, rule := range suite.Rounding {
		if rule.Find == "" {
			return nil, &ConfigurationError{Key: "rounding", Message: fmt.Sprintf("rule %d: find must not be empty", i+1)}
		}
	}

	return &suite, nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
