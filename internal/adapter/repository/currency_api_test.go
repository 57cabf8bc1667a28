package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCurrencyAPI_FetchRates_NestedField(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"date": "2024-03-01", "eur": {"eur": 1, "usd": 1.08, "gbp": 0.85, "dead": 0}}`)
	api := NewCurrencyAPI(server.URL, "eur", server.URL, time.Second, logger.NewNop())

	table, err := api.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Currency{"eur", "usd", "gbp"}, table.Codes())
	rate, _ := table.Rate("usd")
	assert.Equal(t, 1.08, rate)
}

func TestCurrencyAPI_FetchRates_TopLevelTable(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"USD": 1.0, "EUR": 0.9, "GBP": 0.8}`)
	api := NewCurrencyAPI(server.URL, "", server.URL, time.Second, logger.NewNop())

	table, err := api.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Currency{"USD", "EUR", "GBP"}, table.Codes())
}

func TestCurrencyAPI_FetchRates_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		field  string
		err    error
	}{
		{name: "bad status", status: http.StatusInternalServerError, body: `{}`, err: ErrUpstreamStatus},
		{name: "missing field", status: http.StatusOK, body: `{"usd": {}}`, field: "eur", err: ErrFieldMissing},
		{name: "empty table", status: http.StatusOK, body: `{}`, err: model.ErrEmptyRateTable},
		{name: "all unusable", status: http.StatusOK, body: `{"a": 0, "b": "x"}`, err: model.ErrEmptyRateTable},
		{name: "not an object", status: http.StatusOK, body: `[1]`, err: model.ErrNotAnObject},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, tc.status, tc.body)
			api := NewCurrencyAPI(server.URL, tc.field, server.URL, time.Second, logger.NewNop())

			_, err := api.FetchRates(context.Background())

			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCurrencyAPI_FetchRates_MalformedJSON(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"eur": {`)
	api := NewCurrencyAPI(server.URL, "eur", server.URL, time.Second, logger.NewNop())

	_, err := api.FetchRates(context.Background())

	assert.Error(t, err)
}

func TestCurrencyAPI_FetchAsOf(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
		wantErr  bool
	}{
		{name: "string date", body: `{"date": "2024-03-01", "eur": {}}`, expected: "2024-03-01"},
		{name: "numeric date", body: `{"date": 20240301}`, expected: "20240301"},
		{name: "missing date", body: `{"eur": {}}`, wantErr: true},
		{name: "null date", body: `{"date": null}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, http.StatusOK, tc.body)
			api := NewCurrencyAPI(server.URL, "eur", server.URL, time.Second, logger.NewNop())

			got, err := api.FetchAsOf(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCurrencyAPI_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"USD": 1}`))
	}))
	defer server.Close()

	api := NewCurrencyAPI(server.URL, "", server.URL, time.Millisecond, logger.NewNop())

	_, err := api.FetchRates(context.Background())

	assert.Error(t, err)
}
