// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebooklm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/notebook-engine/internal/secrets"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

func testClient(ts *httptest.Server) *Client {
	cfg := types.ClientConfig{BaseURL: ts.URL}
	cfg.UserAgent = "notebook-engine/test"
	return NewClient(cfg, secrets.Tokens{
		Cookies:   "SID=abc",
		CSRFToken: "csrf-1",
		SessionID: "sess-1",
	})
}

func TestCreateNotebook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notebooks", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "My Notebook", body["title"])

		json.NewEncoder(w).Encode(map[string]string{
			"id":    "nb-1",
			"title": "My Notebook",
			"url":   "https://notebooklm.example/nb-1",
		})
	}))
	defer ts.Close()

	nb, err := testClient(ts).CreateNotebook(context.Background(), "My Notebook")
	require.NoError(t, err)
	assert.Equal(t, "nb-1", nb.ID)
	assert.Equal(t, "My Notebook", nb.Title)
	assert.Equal(t, "https://notebooklm.example/nb-1", nb.URL)
}

func TestCreateNotebook_NoID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	_, err := testClient(ts).CreateNotebook(context.Background(), "My Notebook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notebook id")
}

func TestAddTextSource_NormalizesIDShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"sourceId field", `{"sourceId": "s1"}`, "s1"},
		{"bare id field", `{"id": "s2"}`, "s2"},
		{"nested source object", `{"source": {"id": "s3"}}`, "s3"},
		{"no identifier", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/notebooks/nb-1/sources/text", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			result, err := testClient(ts).AddTextSource(context.Background(), "nb-1", "body", "Title")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SourceID)
		})
	}
}

func TestAddURLSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notebooks/nb-1/sources/url", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://docs.example.com", body["url"])
		assert.Equal(t, "Docs", body["title"])

		w.Write([]byte(`{"sourceId": "s-url"}`))
	}))
	defer ts.Close()

	result, err := testClient(ts).AddURLSource(context.Background(), "nb-1", "https://docs.example.com", "Docs")
	require.NoError(t, err)
	assert.Equal(t, "s-url", result.SourceID)
}

func TestQuery_AnswerShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"answer field", `{"answer": "A1"}`, "A1"},
		{"response field", `{"response": "A2"}`, "A2"},
		{"answer preferred over response", `{"answer": "A1", "response": "A2"}`, "A1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/notebooks/nb-1/query", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			answer, err := testClient(ts).Query(context.Background(), "nb-1", "question?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, answer)
		})
	}
}

func TestListNotebooks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/notebooks", r.URL.Path)
		w.Write([]byte(`{"notebooks": [{"id": "a", "title": "A"}, {"id": "b", "title": "B"}]}`))
	}))
	defer ts.Close()

	notebooks, err := testClient(ts).ListNotebooks(context.Background())
	require.NoError(t, err)
	require.Len(t, notebooks, 2)
	assert.Equal(t, "a", notebooks[0].ID)
	assert.Equal(t, "B", notebooks[1].Title)
}

func TestAuthHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SID=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "csrf-1", r.Header.Get("X-CSRF-Token"))
		assert.Equal(t, "sess-1", r.Header.Get("X-Session-ID"))
		assert.Equal(t, "notebook-engine/test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"notebooks": []}`))
	}))
	defer ts.Close()

	_, err := testClient(ts).ListNotebooks(context.Background())
	require.NoError(t, err)
}

func TestHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := testClient(ts).ListNotebooks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
