package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testName = "test_OneVisitorTwoVisits"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func readArtifact(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewStore_Unwritable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	processed := filepath.Join(root, ProcessedDir)
	require.NoError(t, os.MkdirAll(processed, 0o555))
	t.Cleanup(func() { _ = os.Chmod(processed, 0o755) })

	_, err := NewStore(root)
	var sue *StoreUnwritableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, processed, sue.Dir)
	assert.Contains(t, err.Error(), "chmod 777 "+processed)
}

func TestNames(t *testing.T) {
	p, e := Names(testName, "Foo.getBar_day.xml", Options{})
	assert.Equal(t, "test_OneVisitorTwoVisits__Foo.getBar_day.xml", p)
	assert.Equal(t, p, e)

	p, e = Names(testName, "Foo.getBar_day.xml", Options{Suffix: "_sub", CompareAgainst: "Other"})
	assert.Equal(t, "test_OneVisitorTwoVisits_sub__Foo.getBar_day.xml", p)
	assert.Equal(t, "test_Other_sub__Foo.getBar_day.xml", e)
}

func TestCompare_BootstrapThenPass(t *testing.T) {
	store := newTestStore(t)
	c := NewComparator(store)
	produced := "<result><row><label>a</label></row></result>"

	out, err := c.Compare(testName, "Foo.getBar_day.xml", produced, Options{Format: "xml"})
	require.NoError(t, err)
	assert.Equal(t, StatusBaselineMissing, out.Status)
	assert.Equal(t, produced, readArtifact(t, out.ExpectedPath))
	assert.Equal(t, produced, readArtifact(t, out.ProcessedPath))

	for i := 0; i < 2; i++ {
		out, err = c.Compare(testName, "Foo.getBar_day.xml", produced, Options{Format: "xml"})
		require.NoError(t, err)
		assert.Equal(t, StatusPass, out.Status)
		assert.False(t, out.Refreshed)
		assert.Equal(t, produced, readArtifact(t, out.ExpectedPath))
	}
}

func TestCompare_EmptyBaselineIsMissing(t *testing.T) {
	store := newTestStore(t)
	_, expected := Names(testName, "Foo.getBar.json", Options{})
	require.NoError(t, store.WriteExpected(expected, "  \n"))

	out, err := NewComparator(store).Compare(testName, "Foo.getBar.json", `{"a":1}`, Options{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, StatusBaselineMissing, out.Status)
	assert.Equal(t, `{"a":1}`, readArtifact(t, out.ExpectedPath))
}

func TestCompare_XMLStructural(t *testing.T) {
	store := newTestStore(t)
	c := NewComparator(store)
	_, expected := Names(testName, "Foo.getBar_day.xml", Options{})
	require.NoError(t, store.WriteExpected(expected, "<result>\n  <row b=\"2\" a=\"1\">\n    <label> x </label>\n  </row>\n</result>"))

	produced := `<result><row a="1" b="2"><label>x</label></row></result>`
	out, err := c.Compare(testName, "Foo.getBar_day.xml", produced, Options{Format: "xml"})
	require.NoError(t, err)
	assert.Equal(t, StatusPass, out.Status)
	assert.True(t, out.Refreshed)
	assert.Equal(t, produced, readArtifact(t, out.ExpectedPath))

	out, err = c.Compare(testName, "Foo.getBar_day.xml", `<result><row a="1" b="3"><label>x</label></row></result>`, Options{Format: "xml"})
	require.NoError(t, err)
	assert.Equal(t, StatusFail, out.Status)
	var m *ComparisonMismatch
	require.ErrorAs(t, out.Mismatch, &m)
	assert.Equal(t, "structure", m.Kind)
	assert.NotEmpty(t, m.Diff)
}

func TestCompare_LengthBeforeContent(t *testing.T) {
	store := newTestStore(t)
	c := NewComparator(store)
	_, expected := Names(testName, "Foo.getBar.csv", Options{})
	require.NoError(t, store.WriteExpected(expected, "a,b\n1,2\n"))

	out, err := c.Compare(testName, "Foo.getBar.csv", "a,b\n1,2\n3,4\n", Options{Format: "csv"})
	require.NoError(t, err)
	var m *ComparisonMismatch
	require.ErrorAs(t, out.Mismatch, &m)
	assert.Equal(t, "length", m.Kind)
	assert.Contains(t, m.Diff, "expected 8 characters, got 12")

	out, err = c.Compare(testName, "Foo.getBar.csv", "a,b\n1,3\n", Options{Format: "csv"})
	require.NoError(t, err)
	require.ErrorAs(t, out.Mismatch, &m)
	assert.Equal(t, "content", m.Kind)
	assert.True(t, strings.HasPrefix(m.Error(), "Differences with expected in '"))
}

func TestCompare_NormalizedBaselineRefresh(t *testing.T) {
	store := newTestStore(t)
	_, expected := Names(testName, "Foo.getBar.csv", Options{})
	require.NoError(t, store.WriteExpected(expected, "revenue\n10.00\n"))

	strip := func(s string) (string, error) { return strings.ReplaceAll(s, ".00", ""), nil }
	out, err := NewComparator(store).Compare(testName, "Foo.getBar.csv", "revenue\n10\n", Options{Format: "csv", Normalize: strip})
	require.NoError(t, err)
	assert.Equal(t, StatusPass, out.Status)
	assert.True(t, out.Refreshed)
	assert.Equal(t, "revenue\n10\n", readArtifact(t, out.ExpectedPath))
}

func TestCompare_AliasedBaselineNotRefreshed(t *testing.T) {
	store := newTestStore(t)
	opts := Options{Format: "xml", CompareAgainst: "Reference"}
	_, expected := Names(testName, "Foo.getBar.xml", opts)
	original := "<result>\n  <v>1</v>\n</result>"
	require.NoError(t, store.WriteExpected(expected, original))

	out, err := NewComparator(store).Compare(testName, "Foo.getBar.xml", "<result><v>1</v></result>", opts)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, out.Status)
	assert.False(t, out.Refreshed)
	assert.Equal(t, original, readArtifact(t, out.ExpectedPath))
	assert.Equal(t, store.ProcessedPath("test_OneVisitorTwoVisits__Foo.getBar.xml"), out.ProcessedPath)
}

func TestCompare_MissingAliasedBaselineNotWritten(t *testing.T) {
	store := newTestStore(t)
	opts := Options{Format: "xml", CompareAgainst: "Reference"}

	out, err := NewComparator(store).Compare(testName, "Foo.getBar_day.xml", "<a>1</a>", opts)
	require.NoError(t, err)
	assert.Equal(t, StatusBaselineMissing, out.Status)
	assert.Equal(t, store.ExpectedPath("test_Reference__Foo.getBar_day.xml"), out.ExpectedPath)
	assert.NoFileExists(t, out.ExpectedPath)
	assert.Equal(t, "<a>1</a>", readArtifact(t, out.ProcessedPath))

	report := NewRunReport(testName, store.ExpectedDirPath())
	report.Add(out)
	var missing *MissingBaselinesError
	require.ErrorAs(t, report.Err(), &missing)
}

func TestRunReport_OneOfThreeMissing(t *testing.T) {
	store := newTestStore(t)
	c := NewComparator(store)
	ids := []string{"A.get.xml", "B.get.xml", "C.get.xml"}
	for _, id := range ids[:2] {
		_, expected := Names(testName, id, Options{})
		require.NoError(t, store.WriteExpected(expected, "<r>"+id+"</r>"))
	}

	report := NewRunReport(testName, store.ExpectedDirPath())
	for _, id := range ids {
		produced := "<r>" + id + "</r>"
		if id == "B.get.xml" {
			produced = "<r>changed</r>"
		}
		out, err := c.Compare(testName, id, produced, Options{Format: "xml"})
		require.NoError(t, err)
		report.Add(out)
	}

	assert.Equal(t, 1, report.Passed)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, store.ExpectedPath("test_OneVisitorTwoVisits__C.get.xml"), report.Missing[0])
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 3, report.Total())

	err := report.Err()
	var missing *MissingBaselinesError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Error(), "Could not find expected API output")
	assert.Contains(t, missing.Error(), "copy files from the processed/ directory into "+store.ExpectedDirPath())

	var failures *ComparisonFailures
	require.ErrorAs(t, err, &failures)
	var m *ComparisonMismatch
	require.ErrorAs(t, failures, &m)
	assert.Equal(t, "B.get.xml", m.RequestID)
}

func TestComparisonFailures_Message(t *testing.T) {
	first := &ComparisonMismatch{RequestID: "A", ProcessedPath: "p/A", ExpectedPath: "e/A", Kind: "content", Diff: "line"}
	second := &RequestFailure{RequestID: "B", Err: errors.New("declined")}
	cf := &ComparisonFailures{Failures: []error{first, second}}

	assert.Equal(t, "2 comparison failure(s):\n#1: Differences with expected in 'p/A' (content mismatch against e/A)\n#2: B: declined", cf.Error())
	assert.Same(t, first, cf.Representative())
	assert.True(t, errors.Is(cf, first))

	report := NewRunReport(testName, "expected")
	assert.NoError(t, report.Err())
	report.AddFailure("B", errors.New("declined"))
	require.ErrorAs(t, report.Err(), &cf)
}

func TestStore_ListAndPromote(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.WriteProcessed("test_A__x.xml", "1"))
	require.NoError(t, store.WriteProcessed("test_A__y.xml", "2"))
	require.NoError(t, store.WriteProcessed("test_B__x.xml", "3"))

	names, err := store.ListProcessed("test_A__")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_A__x.xml", "test_A__y.xml"}, names)

	require.NoError(t, store.Promote("test_A__y.xml"))
	content, ok, err := store.ReadExpected("test_A__y.xml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", content)

	assert.Error(t, store.Promote("test_A__z.xml"))

	names, err = store.ListExpected("test_A")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_A__y.xml"}, names)
}

func TestXMLEqual(t *testing.T) {
	equal, ok := XMLEqual(`<a x="1" y="2"><b>t</b></a>`, "<a y=\"2\" x=\"1\">\n <b> t </b>\n</a>")
	assert.True(t, ok)
	assert.True(t, equal)

	equal, ok = XMLEqual(`<a><b/><c/></a>`, `<a><c/><b/></a>`)
	assert.True(t, ok)
	assert.False(t, equal)

	_, ok = XMLEqual(`<a>`, `<a/>`)
	assert.False(t, ok)
}
