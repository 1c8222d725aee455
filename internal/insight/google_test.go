package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGoogleSearcher_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "engine-1", r.URL.Query().Get("cx"))
		assert.Equal(t, "Acme engineering tech stack", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("num"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"title": "Acme Engineering", "link": "https://acme.dev/blog",
				 "snippet": "plain fallback", "htmlSnippet": "We use <b>Python</b> and<br> <b>AWS</b>"},
				{"title": "Stack", "link": "https://acme.dev/stack", "snippet": "Docker   everywhere"}
			]
		}`))
	}))
	defer server.Close()

	s, err := NewGoogleSearcher(context.Background(), "test-key", "engine-1", time.Second,
		option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "Acme engineering tech stack", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, SearchResult{Title: "Acme Engineering", URL: "https://acme.dev/blog", Snippet: "We use Python and AWS"}, results[0])
	assert.Equal(t, "Docker everywhere", results[1].Snippet)
}

func TestGoogleSearcher_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quota exceeded"}}`))
	}))
	defer server.Close()

	s, err := NewGoogleSearcher(context.Background(), "k", "cx", time.Second,
		option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "q", 3)
	assert.Error(t, err)
}

func TestNewGoogleSearcher_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleSearcher(context.Background(), "", "cx", time.Second)
	assert.Error(t, err)
	_, err = NewGoogleSearcher(context.Background(), "key", "", time.Second)
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	text, err := htmlToText("<p>Go &amp; <i>Kubernetes</i></p><script>x()</script>")
	require.NoError(t, err)
	assert.Equal(t, "Go & Kubernetes", text)
}
