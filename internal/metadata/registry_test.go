package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"tokens": [
				{"address": "mintA", "name": "Token A", "symbol": "TKA", "logoURI": "https://example.com/a.png"},
				{"address": "mintB", "name": "Token B", "symbol": "TKB"},
				{"name": "no address", "symbol": "BAD"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewRegistryClient(srv.URL, zap.NewNop())
	entries := client.FetchAll(context.Background())

	require.Len(t, entries, 2)
	assert.Equal(t, Pair{Name: "Token A", Symbol: "TKA", Logo: "https://example.com/a.png"}, entries["mintA"])
	assert.Equal(t, Pair{Name: "Token B", Symbol: "TKB"}, entries["mintB"])
}

func TestRegistryFetchAll_BestEffort(t *testing.T) {
	t.Run("non-OK status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		entries := NewRegistryClient(srv.URL, zap.NewNop()).FetchAll(context.Background())
		assert.Empty(t, entries)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		entries := NewRegistryClient(srv.URL, zap.NewNop()).FetchAll(context.Background())
		assert.Empty(t, entries)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tokens": [`))
		}))
		defer srv.Close()

		entries := NewRegistryClient(srv.URL, zap.NewNop()).FetchAll(context.Background())
		assert.Empty(t, entries)
	})
}
