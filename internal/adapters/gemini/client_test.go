package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req request
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "write something", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Fresh caption ✨"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", URL: srv.URL, HTTPClient: srv.Client()})
	text, err := c.GenerateText(context.Background(), "write something")
	require.NoError(t, err)
	assert.Equal(t, "Fresh caption ✨", text)
}

func TestGenerateTextErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`},
		{name: "not json", status: http.StatusOK, body: `<html>`, malformed: true},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, malformed: true},
		{name: "empty text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`, malformed: true},
		{name: "text not a string", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`, malformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{URL: srv.URL})
			_, err := c.GenerateText(context.Background(), "p")
			require.Error(t, err)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			} else {
				assert.NotErrorIs(t, err, ErrMalformedResponse)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultURL, c.cfg.URL)
	assert.Equal(t, http.DefaultClient, c.cfg.HTTPClient)
}
