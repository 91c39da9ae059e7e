package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	out := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestOllamaProviderNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		_, _ = w.Write([]byte(`{"embedding":[0,2,0]}`))
	}))
	defer srv.Close()

	res, err := NewOllamaProvider(srv.URL, "").Generate(context.Background(), "horario", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, res.Embedding.Values)
}

func TestOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.5]}]}`))
	}))
	defer srv.Close()

	res, err := NewOpenAIProvider("key", srv.URL, "").Generate(context.Background(), "envios", TaskRetrievalDocument)
	require.NoError(t, err)
	require.Len(t, res.Embedding.Values, 2)
	assert.False(t, math.IsNaN(float64(res.Embedding.Values[0])))
}

func TestOpenAIProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewOpenAIProvider("key", srv.URL, "").Generate(context.Background(), "x", "")
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		kind    string
		key     string
		wantErr bool
	}{
		{kind: "ollama"},
		{kind: "openai", key: "k"},
		{kind: "jina", key: "k"},
		{kind: "gemini", key: "k"},
		{kind: "openai", wantErr: true},
		{kind: "cohere", key: "k", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			p, err := NewProvider(tt.kind, tt.key, "", "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}
