package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreview(t *testing.T) {
	t.Run("successful parse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/parse", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"questions": [{"id": "imported_1", "text": "Q1", "type": "short_text"}],
				"warnings": [], "errors": [], "invalid_rows": [], "column_mappings": []
			}`))
		}))
		defer server.Close()

		client := NewHTTPParserClient(server.URL, 2*time.Second)
		result, err := client.ParsePreview(context.Background(), []byte("text\nQ1\n"), models.SourceCSV)
		require.NoError(t, err)
		require.Len(t, result.Questions, 1)
		assert.Equal(t, "Q1", result.Questions[0].Text)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewHTTPParserClient(server.URL, 2*time.Second)
		_, err := client.ParsePreview(context.Background(), []byte("x"), models.SourceCSV)
		assert.Error(t, err)
	})

	t.Run("shape mismatch is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unexpected": true}`))
		}))
		defer server.Close()

		client := NewHTTPParserClient(server.URL, 2*time.Second)
		_, err := client.ParsePreview(context.Background(), []byte("x"), models.SourceCSV)
		assert.Error(t, err)
	})

	t.Run("unreachable server is an error", func(t *testing.T) {
		client := NewHTTPParserClient("http://127.0.0.1:1", time.Second)
		_, err := client.ParsePreview(context.Background(), []byte("x"), models.SourceCSV)
		assert.Error(t, err)
	})

	t.Run("empty base url disables the client", func(t *testing.T) {
		assert.Nil(t, NewHTTPParserClient("", time.Second))
	})
}
