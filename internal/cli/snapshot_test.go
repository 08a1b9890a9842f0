package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	sourcetest "github.com/rileyhilliard/vdash/internal/source/testing"
	"github.com/rileyhilliard/vdash/internal/visits"
)

func TestFetchSnapshot(t *testing.T) {
	srv := newAPIServer(t)

	snap, err := fetchSnapshot(context.Background(), srv.client())
	require.NoError(t, err)

	require.NotNil(t, snap.Counter)
	assert.Equal(t, int64(1234), snap.Counter.TotalVisits)
	assert.Len(t, snap.Trends, 3)
	assert.Equal(t, visits.DerivedMetrics{TodayVisits: 10, YesterdayVisits: 8, TrendPercent: 25, IsIncreasing: true}, snap.Derived)
	assert.Len(t, snap.Points, 3)
	assert.Empty(t, snap.Errors)
}

func TestFetchSnapshot_PartialFailure(t *testing.T) {
	srv := newAPIServer(t)
	srv.setStatus("/trends", http.StatusInternalServerError)

	snap, err := fetchSnapshot(context.Background(), srv.client())
	require.NoError(t, err)

	assert.NotNil(t, snap.Counter)
	assert.Empty(t, snap.Trends)
	assert.NotNil(t, snap.Trends, "encodes as [] rather than null")
	assert.Equal(t, int64(0), snap.Derived.YesterdayVisits)
	assert.Contains(t, snap.Errors[string(source.Trends)], "FetchFailure")
}

func TestFetchSnapshot_ParseFailure(t *testing.T) {
	fake := sourcetest.NewFakeClient()
	fake.SetResponse(source.Counter, sourcetest.CounterPayload(5, 1), nil)
	fake.SetResponse(source.Trends, source.RawPayload(`{"not":"an array"}`), nil)

	snap, err := fetchSnapshot(context.Background(), fake)
	require.NoError(t, err)

	assert.Contains(t, snap.Errors[string(source.Trends)], "ParsePayloadFailure")
}

func TestFetchSnapshot_BothFail(t *testing.T) {
	srv := newAPIServer(t)
	srv.setStatus("/counter", http.StatusBadGateway)
	srv.setStatus("/trends", http.StatusBadGateway)

	_, err := fetchSnapshot(context.Background(), srv.client())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestWriteSnapshot_Text(t *testing.T) {
	srv := newAPIServer(t)
	var buf bytes.Buffer

	require.NoError(t, snapshotCommand(context.Background(), &buf, srv.client(), outputText))

	out := buf.String()
	assert.Contains(t, out, "Total visits")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "▲ +25.0%")
	assert.Contains(t, out, "Yesterday")
	assert.Contains(t, out, "2024-05-02")
	assert.Contains(t, out, "Thu")
}

func TestWriteSnapshot_TextShowsErrors(t *testing.T) {
	srv := newAPIServer(t)
	srv.setStatus("/counter", http.StatusInternalServerError)
	var buf bytes.Buffer

	require.NoError(t, snapshotCommand(context.Background(), &buf, srv.client(), outputText))

	out := buf.String()
	assert.NotContains(t, out, "Total visits")
	assert.Contains(t, out, "✗ counter")
	assert.Contains(t, out, "2024-05-01")
}

func TestWriteSnapshot_JSON(t *testing.T) {
	srv := newAPIServer(t)
	var buf bytes.Buffer

	require.NoError(t, snapshotCommand(context.Background(), &buf, srv.client(), outputJSON))

	var env struct {
		Success bool     `json:"success"`
		Data    Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, int64(10), env.Data.Derived.TodayVisits)
	assert.Equal(t, "2024-05-03", env.Data.Points[2].Date)
	assert.Equal(t, 3, env.Data.Points[2].Day)
}

func TestWriteSnapshot_YAML(t *testing.T) {
	srv := newAPIServer(t)
	var buf bytes.Buffer

	require.NoError(t, snapshotCommand(context.Background(), &buf, srv.client(), outputYAML))

	var snap Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &snap))
	require.NotNil(t, snap.Counter)
	assert.Equal(t, int64(1234), snap.Counter.TotalVisits)
	assert.Equal(t, "2024-05-01", snap.Trends[0].PageID)
	assert.Contains(t, buf.String(), "pageId:")
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		machine bool
		want    string
		wantErr bool
	}{
		{"default", "", false, outputText, false},
		{"text", "text", false, outputText, false},
		{"yaml", "yaml", false, outputYAML, false},
		{"json flag wins", "yaml", true, outputJSON, false},
		{"unknown", "xml", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlag(t, &machineMode, tt.machine)

			got, err := resolveOutput(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrendsCommand(t *testing.T) {
	srv := newAPIServer(t)
	srv.setBody("/trends", `[{"pageId":"2024-05-09","visits":3},{"pageId":"bogus","visits":7}]`)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, trendsCommand(context.Background(), &buf, srv.client(), outputText))
		assert.Contains(t, buf.String(), "2024-05-09")
		assert.Contains(t, buf.String(), "bogus")
		assert.Contains(t, buf.String(), "?")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, trendsCommand(context.Background(), &buf, srv.client(), outputJSON))

		var env struct {
			Data []visits.ChartPoint `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
		require.Len(t, env.Data, 2)
		assert.True(t, env.Data[0].DayValid)
		assert.Equal(t, 9, env.Data[0].Day)
		assert.False(t, env.Data[1].DayValid, "malformed day is kept")
	})

	t.Run("empty", func(t *testing.T) {
		srv.setBody("/trends", `[]`)
		var buf bytes.Buffer
		require.NoError(t, trendsCommand(context.Background(), &buf, srv.client(), outputText))
		assert.Equal(t, "No trend data yet\n", buf.String())
	})

	t.Run("fetch failure", func(t *testing.T) {
		srv.setStatus("/trends", http.StatusServiceUnavailable)
		err := trendsCommand(context.Background(), &bytes.Buffer{}, srv.client(), outputText)
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, source.StatusOf(err))
	})
}
