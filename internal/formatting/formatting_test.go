package formatting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"simple object", map[string]interface{}{"name": "test", "value": 42}, "{\n  \"name\": \"test\",\n  \"value\": 42\n}"},
		{"array", []string{"a", "b"}, "[\n  \"a\",\n  \"b\"\n]"},
		{"nil", nil, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettyJSON(tt.input))
		})
	}

	assert.NotEmpty(t, PrettyJSON(make(chan int)))
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseOutputFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseOutputFormat("xml")
	assert.Error(t, err)
}

func sampleRows() []CaseRow {
	return []CaseRow{
		{Suite: "OneVisitor", Case: "all", Result: "PASSED", Requests: 10, Passed: 10, Duration: 1500 * time.Millisecond},
		{Suite: "OneVisitor", Case: "lastN", Result: "FAILED", Requests: 4, Passed: 2, Missing: 1, Failed: 1, Duration: time.Second, Error: "1 comparison failure(s)"},
	}
}

func TestTableFormatter_CaseSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatTable, Output: &buf}).FormatCaseSummary(sampleRows()))

	out := buf.String()
	assert.Contains(t, out, "SUITE")
	assert.Contains(t, out, "lastN")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "14")
	assert.Contains(t, out, "OneVisitor/lastN:\n1 comparison failure(s)")
	assert.NotContains(t, out, "\x1b[", "colors are off unless requested")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{Output: &buf})
	require.NoError(t, f.FormatCaseSummary(nil))
	require.NoError(t, f.FormatOperations(nil))
	assert.Contains(t, buf.String(), "No cases were run")
	assert.Contains(t, buf.String(), "No operations found")
}

func TestTableFormatter_Operations(t *testing.T) {
	var buf bytes.Buffer
	rows := []OperationRow{
		{ID: "Actions.getPageUrls", Class: `Piwik\Plugins\Actions\API`, Status: "selected"},
		{ID: "Live.getLastVisitsDetails", Status: "excluded"},
	}
	require.NoError(t, NewTableFormatter(Options{Output: &buf}).FormatOperations(rows))
	assert.Contains(t, buf.String(), "1/2 selected")
}

func TestDataFormatters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatYAML, Output: &buf}).FormatCaseSummary(sampleRows()))

	var decoded []CaseRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "lastN", decoded[1].Case)

	buf.Reset()
	require.NoError(t, New(Options{Format: FormatJSON, Output: &buf}).FormatOperations([]OperationRow{{ID: "A.getB", Status: "selected"}}))
	assert.Contains(t, buf.String(), `"id": "A.getB"`)
}
