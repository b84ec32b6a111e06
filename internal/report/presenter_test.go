package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethflowScope/internal/appdata"
	"ethflowScope/internal/model"
)

type mapLabeler struct {
	labels map[string]string
	calls  []string
}

func (m *mapLabeler) Label(_ context.Context, appData string) string {
	m.calls = append(m.calls, appData)
	if label, ok := m.labels[appData]; ok {
		return label
	}
	return appdata.Unknown
}

var (
	summary = Summary{
		Days:      30,
		Events:    6,
		Contract:  "0xbA3cB449bD2B4ADddBc894D8697F5170800EAdeC",
		Network:   "mainnet",
		FromBlock: 975_000,
		HeadBlock: 1_000_000,
	}
	entries = []model.UsageEntry{
		{AppData: "0xaa", Count: 3},
		{AppData: "0xbb", Count: 2},
		{AppData: "0xcc", Count: 1},
	}
)

func TestRenderText(t *testing.T) {
	var out bytes.Buffer
	labeler := &mapLabeler{labels: map[string]string{"0xaa": "CoW Swap", "0xcc": "Zapper"}}

	presenter, err := NewPresenter(&out, FormatText, labeler)
	require.NoError(t, err)
	require.NoError(t, presenter.Render(context.Background(), summary, entries))

	want := strings.Join([]string{
		"In the last 30 days there were 6 eth-flow orders for contract 0xbA3cB449bD2B4ADddBc894D8697F5170800EAdeC on network mainnet.",
		"The following is a list of all the app data used in these orders. When possible, the corresponding `appCode` field has been recovered.",
		"0xaa: count 3, appCode: CoW Swap",
		"0xbb: count 2, appCode: unknown",
		"0xcc: count 1, appCode: Zapper",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, []string{"0xaa", "0xbb", "0xcc"}, labeler.calls)
}

func TestRenderJSON(t *testing.T) {
	var out bytes.Buffer
	presenter, err := NewPresenter(&out, FormatJSON, &mapLabeler{labels: map[string]string{"0xbb": "Safe"}})
	require.NoError(t, err)
	require.NoError(t, presenter.Render(context.Background(), summary, entries))

	var doc jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, summary, doc.Summary)
	assert.Equal(t, []Line{
		{AppData: "0xaa", Count: 3, AppCode: "unknown"},
		{AppData: "0xbb", Count: 2, AppCode: "Safe"},
		{AppData: "0xcc", Count: 1, AppCode: "unknown"},
	}, doc.Entries)
}

func TestRenderWithLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	resolver := appdata.NewResolver(appdata.Config{BaseURL: server.URL, Network: "mainnet"}, nil, nil)

	var out bytes.Buffer
	presenter, err := NewPresenter(&out, "", resolver)
	require.NoError(t, err)
	require.NoError(t, presenter.Render(context.Background(), summary, entries[:1]))
	assert.Contains(t, out.String(), "0xaa: count 3, appCode: unknown\n")
}

func TestRenderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	labeler := &mapLabeler{}
	presenter, err := NewPresenter(&out, FormatText, labeler)
	require.NoError(t, err)

	err = presenter.Render(ctx, summary, entries)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, labeler.calls)
}

func TestNewPresenterRejectsUnknownFormat(t *testing.T) {
	_, err := NewPresenter(&bytes.Buffer{}, "yaml", nil)
	assert.Error(t, err)
}

func TestRenderWithoutLabelerReportsUnknown(t *testing.T) {
	var out bytes.Buffer
	presenter, err := NewPresenter(&out, FormatText, nil)
	require.NoError(t, err)

	require.NoError(t, presenter.Render(context.Background(), summary, entries))
	for _, entry := range entries {
		assert.Contains(t, out.String(), entry.AppData+": count ")
	}
	assert.Equal(t, len(entries), strings.Count(out.String(), "appCode: "+appdata.Unknown+"\n"))
}
