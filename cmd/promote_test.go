package cmd

import (
	"bytes"
	"testing"

	"goldenapi/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *snapshot.Store {
	t.Helper()
	store, err := snapshot.NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		snapshot.ArtifactName("test_OneVisitor", "VisitsSummary.get_day.xml"),
		snapshot.ArtifactName("test_OneVisitor", "Actions.getPageUrls_day.xml"),
		snapshot.ArtifactName("test_Other", "VisitsSummary.get_day.xml"),
	} {
		require.NoError(t, store.WriteProcessed(name, "<result>"+name+"</result>"))
	}
	require.NoError(t, store.WriteExpected(snapshot.ArtifactName("test_OneVisitor", "VisitsSummary.get_day.xml"), "<result>old</result>"))
	return store
}

func TestPromotable(t *testing.T) {
	store := seedStore(t)

	names, err := promotable(store, "OneVisitor", false)
	require.NoError(t, err)
	assert.Equal(t, []string{snapshot.ArtifactName("test_OneVisitor", "Actions.getPageUrls_day.xml")}, names)

	names, err = promotable(store, "test_OneVisitor", true)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	names, err = promotable(store, "", false)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	blank := snapshot.ArtifactName("test_OneVisitor", "Actions.getPageUrls_day.xml")
	require.NoError(t, store.WriteExpected(blank, "  \n"))
	names, err = promotable(store, "OneVisitor", false)
	require.NoError(t, err)
	assert.Equal(t, []string{blank}, names)
}

func TestPromoteCommand(t *testing.T) {
	store := seedStore(t)
	t.Cleanup(func() { promoteTest, promoteDryRun, promoteAll = "", false, false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"promote", "--store", store.Root(), "--test", "OneVisitor", "--dry-run"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "1 artifact(s) would be promoted")

	name := snapshot.ArtifactName("test_OneVisitor", "Actions.getPageUrls_day.xml")
	_, ok, err := store.ReadExpected(name)
	require.NoError(t, err)
	assert.False(t, ok)

	out.Reset()
	promoteDryRun = false
	rootCmd.SetArgs([]string{"promote", "--store", store.Root(), "--test", "OneVisitor", "--dry-run=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "✅ promoted "+name)

	content, ok, err := store.ReadExpected(name)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<result>"+name+"</result>", content)
}
