package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// dataFormatter renders rows as a machine-readable document.
type dataFormatter struct {
	options Options
	encode  func(v interface{}) (string, error)
}

func (f *dataFormatter) FormatCaseSummary(rows []CaseRow) error {
	return f.write(rows)
}

func (f *dataFormatter) FormatOperations(rows []OperationRow) error {
	return f.write(rows)
}

func (f *dataFormatter) write(v interface{}) error {
	out, err := f.encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.options.writer(), out)
	return err
}

func encodeJSON(v interface{}) (string, error) {
	return PrettyJSON(v), nil
}

func encodeYAML(v interface{}) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(b), nil
}
