package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Static(t *testing.T) {
	base := model.NewInput(700, 200, 100, 150, 400)
	col := NewCollector(NewStaticFetcher(base.Outcome), base.Capital, base.Rates)

	in, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, in.Outcome.Premiums.Equal(decimal.NewFromInt(150)))
	assert.True(t, in.Capital.Total().Equal(decimal.NewFromInt(1000)))
	assert.True(t, in.Rates.Mezzanine.Equal(decimal.NewFromFloat(0.12)))
}

func TestHTTPFetcher_FetchOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/outcome", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"premiums": 150.25, "losses": "400"}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", "secret", "")
	out, err := f.FetchOutcome(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Premiums.Equal(decimal.NewFromFloat(150.25)))
	assert.True(t, out.Losses.Equal(decimal.NewFromInt(400)))
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"bad json", http.StatusOK, "{"},
		{"missing field", http.StatusOK, `{"premiums": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			col := NewCollector(NewHTTPFetcher(srv.URL, "", ""), model.TrancheCapital{}, model.DefaultRateSchedule())
			_, err := col.Collect(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "collect from http")
		})
	}
}
