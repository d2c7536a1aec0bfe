package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"goldenapi/internal/api"
	"goldenapi/internal/config"
	"goldenapi/internal/registry"
	"goldenapi/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const builderDescriptor = `
classes:
  - class: Foo
    methods:
      - name: getBar
        parameters:
          - name: idSite
          - name: period
          - name: date
      - name: getNoPeriod
        parameters:
          - name: idSite
      - name: getNeedsThing
        parameters:
          - name: thing
      - name: getEverything
        parameters:
          - name: idSite
          - name: period
          - name: date
          - name: segment
            default: ""
          - name: idGoal
            default: ""
          - name: pageName
`

type fakeProber struct {
	rows  []map[string]interface{}
	raw   string
	err   error
	calls []api.Params
}

func (f *fakeProber) Rows(ctx context.Context, params api.Params) ([]map[string]interface{}, string, error) {
	f.calls = append(f.calls, params)
	return f.rows, f.raw, f.err
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(strings.NewReader(builderDescriptor))
	require.NoError(t, err)
	return reg
}

func selectOps(reg *registry.Registry, include ...string) surface.Selection {
	return surface.Enumerate(reg, include, nil)
}

func fixedClock() time.Time {
	return time.Date(2014, 6, 15, 10, 0, 0, 0, time.UTC)
}

func TestBuild_PeriodSuffix(t *testing.T) {
	reg := newRegistry(t)
	b := NewBuilder(reg, nil)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":  1,
		"date":    "2010-03-06 11:22:33",
		"periods": []interface{}{"day", "week"},
		"format":  "xml",
	})

	coll, err := b.Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.getBar_day.xml", "Foo.getBar_week.xml"}, coll.IDs())

	req, ok := coll.Get("Foo.getBar_week.xml")
	require.True(t, ok)
	assert.Equal(t, "week", req.Params["period"])
	assert.Equal(t, "2010-03-06", req.Params["date"])
	assert.Equal(t, "Foo.getBar", req.Params.Method())
	assert.Equal(t, "1", req.Params["hideIdSubDatable"])
	assert.Equal(t, "1", req.Params["serialize"])
}

func TestBuild_NoPeriodParameterCollapses(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":        1,
		"date":          "2010-03-06",
		"periods":       []interface{}{"day", "week"},
		"format":        []interface{}{"xml", "json"},
		"fileExtension": "txt",
	})

	coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getNoPeriod"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.getNoPeriod.xml.txt", "Foo.getNoPeriod.json.txt"}, coll.IDs())
}

func TestBuild_IdentifiersUnique(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":  1,
		"date":    "2010-03-06",
		"periods": []interface{}{"day", "week", "month", "year"},
		"format":  []interface{}{"xml", "json", "csv"},
	})

	coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg), cfg)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, id := range coll.IDs() {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	// getBar and getEverything: 4 periods x 3 formats; getNoPeriod: 3 formats
	assert.Equal(t, 2*12+3, coll.Len())
}

func TestBuild_BaseParameters(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":   2,
		"date":     "today",
		"segment":  "browserCode==ff;visitCount>1",
		"idGoal":   0,
		"language": "fr",
	})

	coll, err := NewBuilder(reg, nil, WithClock(fixedClock)).Build(context.Background(), selectOps(reg, "Foo.getEverything"), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"Foo.getEverything_day.xml"}, coll.IDs())

	req := coll.Requests()[0]
	assert.Equal(t, "2014-06-15", req.Params["date"])
	assert.Equal(t, "browserCode%3D%3Dff%3BvisitCount%3E1", req.Params["segment"])
	assert.Equal(t, "0", req.Params["idGoal"])
	assert.Equal(t, PageName, req.Params["pageName"])
	assert.Equal(t, "fr", req.Params["language"])
}

func TestBuild_DeclinedCombinationsAreSkipped(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{"idSite": 1, "date": "2010-03-06"})

	coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo"), cfg)
	require.NoError(t, err)

	require.Len(t, coll.Skipped, 1)
	assert.Equal(t, "Foo.getNeedsThing_day.xml", coll.Skipped[0].ID)
	assert.Equal(t, api.SkipMissingParameter, coll.Skipped[0].Reason)
	assert.Equal(t, "thing", coll.Skipped[0].Detail)
}

func TestBuild_InsufficientCoverage(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{"idSite": 1, "date": "2010-03-06"})

	_, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getNeedsThing"), cfg)
	var ice *InsufficientCoverageError
	require.ErrorAs(t, err, &ice)
	assert.Empty(t, ice.Generated)
	assert.Equal(t, []string{"Foo.getNeedsThing"}, ice.Requested)

	_, err = NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getBar", "Foo.getNeedsThing", "Foo.getMissing"), cfg)
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, []string{"Foo.getBar_day.xml"}, ice.Generated)
	assert.Contains(t, ice.Error(), "Only generated 1 API calls")
}

func TestBuild_UnparseableDate(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{"idSite": 1, "date": "the day after"})

	_, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, config.KeyDate, ce.Key)
}

func TestBuild_DatePassThrough(t *testing.T) {
	reg := newRegistry(t)
	tests := []struct {
		name    string
		date    string
		periods []interface{}
	}{
		{"range period", "2010-01-01,2010-01-05", []interface{}{"range"}},
		{"multiple dates", "2010-01-01,2010-01-05", []interface{}{"day"}},
		{"lastN keyword", "last7", []interface{}{"day"}},
		{"previousN keyword", "previous30", []interface{}{"week"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MustNew(map[string]interface{}{"idSite": 1, "date": tt.date, "periods": tt.periods})
			coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.date, coll.Requests()[0].Params["date"])
		})
	}
}

func TestBuild_LastN(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":       1,
		"date":         "2010-01-31",
		"periods":      []interface{}{"day", "week", "month", "year"},
		"format":       []interface{}{"xml", "json"},
		"setDateLastN": true,
	})

	coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
	require.NoError(t, err)

	want := map[string]string{
		"day":   "2010-01-31,2010-02-06",
		"week":  "2010-01-31,2010-03-14",
		"month": "2010-01-31,2010-07-31",
		"year":  "2010-01-31,2016-01-31",
	}
	for _, req := range coll.Requests() {
		assert.Equal(t, want[req.Period], req.Params["date"], req.ID)
	}
}

func TestBuild_LastNIdenticalAcrossFormats(t *testing.T) {
	reg := newRegistry(t)
	rapid.Check(t, func(t *rapid.T) {
		start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rapid.IntRange(0, 9000).Draw(t, "offset"))
		n := rapid.IntRange(1, 30).Draw(t, "n")
		period := rapid.SampledFrom([]string{"day", "week", "month", "year"}).Draw(t, "period")

		cfg := config.MustNew(map[string]interface{}{
			"idSite":       1,
			"date":         start.Format(isoDate),
			"periods":      period,
			"format":       []interface{}{"xml", "json", "csv", "tsv"},
			"setDateLastN": n,
		})
		coll, err := NewBuilder(reg, nil).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		var end time.Time
		switch period {
		case "day":
			end = start.AddDate(0, 0, n)
		case "week":
			end = start.AddDate(0, 0, 7*n)
		case "month":
			end = start.AddDate(0, n, 0)
		case "year":
			end = start.AddDate(n, 0, 0)
		}
		want := start.Format(isoDate) + "," + end.Format(isoDate)

		if coll.Len() != 4 {
			t.Fatalf("expected 4 requests, got %d", coll.Len())
		}
		for _, req := range coll.Requests() {
			if req.Params["date"] != want {
				t.Fatalf("%s: date %q, want %q", req.ID, req.Params["date"], want)
			}
		}
	})
}

func TestBuild_ProbeResolvesSubtableOncePerPeriod(t *testing.T) {
	reg := newRegistry(t)
	prober := &fakeProber{
		rows: []map[string]interface{}{
			{"label": "no subtable"},
			{"label": "first", subtableKey: 12.0},
			{"label": "second", subtableKey: 13.0},
		},
		raw: `[{"label":"no subtable"}]`,
	}
	cfg := config.MustNew(map[string]interface{}{
		"idSite":        1,
		"date":          "2010-03-06",
		"periods":       []interface{}{"day", "week"},
		"format":        []interface{}{"xml", "json"},
		"supertableApi": "Referrers.getWebsites",
	})

	coll, err := NewBuilder(reg, prober).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
	require.NoError(t, err)

	require.Len(t, prober.calls, 2)
	assert.Equal(t, "Referrers.getWebsites", prober.calls[0].Method())
	assert.Equal(t, "json", prober.calls[0]["format"])
	assert.Equal(t, "0", prober.calls[0]["serialize"])
	assert.Equal(t, "week", prober.calls[1]["period"])

	for _, req := range coll.Requests() {
		assert.Equal(t, "12", req.Params["idSubtable"], req.ID)
		assert.True(t, req.SubtableResolved)
	}
}

func TestBuild_ProbeWithoutSubtable(t *testing.T) {
	reg := newRegistry(t)
	prober := &fakeProber{rows: []map[string]interface{}{{"label": "a"}}, raw: `[{"label":"a"}]`}
	cfg := config.MustNew(map[string]interface{}{
		"idSite":        1,
		"date":          "2010-03-06",
		"supertableApi": "Referrers.getWebsites",
	})

	_, err := NewBuilder(reg, prober).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
	var pe *ProbeError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Cannot find subtable to load for Foo.getBar in Referrers.getWebsites.", err.Error())

	var ce *config.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, config.KeySupertableAPI, ce.Key)
}

func TestBuild_ProbeFailures(t *testing.T) {
	reg := newRegistry(t)
	cfg := config.MustNew(map[string]interface{}{
		"idSite":        1,
		"date":          "2010-03-06",
		"supertableApi": "Referrers.getWebsites",
	})

	tests := []struct {
		name   string
		prober *fakeProber
	}{
		{"error in response", &fakeProber{raw: `{"result":"error","message":"boom"}`}},
		{"exception in response", &fakeProber{raw: `Exception thrown`}},
		{"dispatch failure", &fakeProber{err: fmt.Errorf("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(reg, tt.prober).Build(context.Background(), selectOps(reg, "Foo.getBar"), cfg)
			var pe *ProbeError
			require.ErrorAs(t, err, &pe)
			assert.Error(t, pe.Cause)
			assert.Contains(t, err.Error(), "Foo.getBar")
		})
	}
}
