package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sentences/internal/sentences"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test-key", opts...)
	require.NoError(t, err)
	return c, srv
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/hello", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Success","language":"Chinese","sentences":[
			{"target":"你好","english":"hello","pronunciation":"nǐ hǎo"},
			{"target":"你好吗","english":"how are you","pronunciation":"nǐ hǎo ma"}
		]}`))
	})

	out := c.Execute(context.Background(), "hello")

	require.True(t, out.Succeeded())
	assert.Equal(t, "Chinese", out.DetectedLanguage)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, []sentences.Example{
		{Target: "你好", English: "hello", Pronunciation: "nǐ hǎo"},
		{Target: "你好吗", English: "how are you", Pronunciation: "nǐ hǎo ma"},
	}, out.Examples)
}

func TestExecute_EscapesTerm(t *testing.T) {
	t.Parallel()

	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"message":"Success","language":"English","sentences":[]}`))
	})

	out := c.Execute(context.Background(), "good morning/evening")

	require.True(t, out.Succeeded())
	assert.Equal(t, "/good%20morning%2Fevening", gotPath)
	assert.NotNil(t, out.Examples)
	assert.Empty(t, out.Examples)
}

func TestExecute_RemoteMessageSurfacedVerbatim(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"No results found"}`))
	})

	out := c.Execute(context.Background(), "xyz")

	assert.False(t, out.Succeeded())
	assert.Equal(t, "No results found", out.Message)
	assert.Equal(t, http.StatusNotFound, out.StatusCode)
	assert.Empty(t, out.Examples)
}

func TestExecute_FailureWithoutMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>bad gateway</html>"},
		{name: "empty body", body: ""},
		{name: "empty message", body: `{"message":""}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			})

			out := c.Execute(context.Background(), "word")
			assert.False(t, out.Succeeded())
			assert.Equal(t, FallbackErrorMessage, out.Message)
		})
	}
}

func TestExecute_MalformedSuccessBody(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sentences": [`))
	})

	out := c.Execute(context.Background(), "word")
	assert.False(t, out.Succeeded())
	assert.Equal(t, UnexpectedErrorMessage, out.Message)
}

func TestExecute_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, "k")
	require.NoError(t, err)

	out := c.Execute(context.Background(), "word")
	assert.False(t, out.Succeeded())
	assert.Equal(t, UnexpectedErrorMessage, out.Message)
	assert.Zero(t, out.StatusCode)
}

func TestExecute_SingleAttempt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	c.Execute(context.Background(), "word")
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecute_KeepsExamplesAsReceived(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Success","language":"Chinese","sentences":[
			{"target":"你好","english":"hello","pronunciation":""},
			{"target":"谢谢","english":"thanks","pronunciation":"xièxie"}
		]}`))
	})

	out := c.Execute(context.Background(), "你好")
	require.True(t, out.Succeeded())
	assert.Equal(t, []sentences.Example{
		{Target: "你好", English: "hello", Pronunciation: ""},
		{Target: "谢谢", English: "thanks", Pronunciation: "xièxie"},
	}, out.Examples)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", "k")
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("https://example.com/api/", "k")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/word", c.endpoint("word"))
}
