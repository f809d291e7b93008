package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"docchat/internal/client"
)

func TestFetchChartData(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/csv/chart-data/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "sess-9", chi.URLParam(req, "sessionID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"pie_chart": {"labels": ["A", "B"], "values": [1, 2]},
			"bar_chart": {
				"labels": ["Q1", "Q2"],
				"datasets": [{"label": "revenue", "data": [10, 20], "backgroundColor": "#8884d8"}]
			}
		}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	payload, err := c.FetchChartData(context.Background(), "sess-9")
	require.NoError(t, err)
	require.NotNil(t, payload.PieChart)
	require.Equal(t, []string{"A", "B"}, payload.PieChart.Labels)
	require.Equal(t, []float64{1, 2}, payload.PieChart.Values)
	require.NotNil(t, payload.BarChart)
	require.Len(t, payload.BarChart.Datasets, 1)
	require.Equal(t, "revenue", payload.BarChart.Datasets[0].Label)
}

func TestFetchChartDataNotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/csv/chart-data/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "no chart data for session", http.StatusNotFound)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchChartData(context.Background(), "missing")
	var statusErr *client.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
