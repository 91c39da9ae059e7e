package evolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSends(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", Token: "secret", Instance: "shop"})

	require.NoError(t, c.SendText(context.Background(), "549351", "hola"))
	assert.Equal(t, "/message/sendText/shop", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "549351", gotBody["number"])
	assert.Equal(t, "hola", gotBody["text"])

	require.NoError(t, c.SendMedia(context.Background(), "549351", "https://img/a.jpg", "Milanesa"))
	assert.Equal(t, "/message/sendMedia/shop", gotPath)
	assert.Equal(t, "image", gotBody["mediatype"])
	assert.Equal(t, "https://img/a.jpg", gotBody["media"])
	assert.Equal(t, "Milanesa", gotBody["caption"])
}

func TestClientErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := NewClient(Config{BaseURL: "http://localhost"})
		assert.False(t, c.Configured())
		assert.ErrorIs(t, c.SendText(context.Background(), "1", "x"), ErrNotConfigured)
	})

	t.Run("gateway error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"instance not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL, Token: "t", Instance: "i"})
		err := c.SendText(context.Background(), "1", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.Contains(t, err.Error(), "instance not found")
	})
}
