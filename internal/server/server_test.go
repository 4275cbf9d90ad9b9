package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sentences/internal/pinyin"
	"github.com/f3rmion/sentences/internal/sentences"
)

type stubExecutor struct {
	outcomes map[string]sentences.Outcome
	terms    []string
}

func (s *stubExecutor) Execute(_ context.Context, term string) sentences.Outcome {
	s.terms = append(s.terms, term)
	if out, ok := s.outcomes[term]; ok {
		return out
	}
	return sentences.Outcome{
		Kind:             sentences.OutcomeSuccess,
		DetectedLanguage: "Chinese",
		Examples: []sentences.Example{
			{Target: "你好", Pronunciation: "nǐ hǎo", English: "Hello"},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *stubExecutor) {
	t.Helper()
	exec := &stubExecutor{outcomes: map[string]sentences.Outcome{}}
	srv, err := New(Config{ReferenceLanguage: "English", AllowedOrigins: []string{"*"}}, exec, nil)
	require.NoError(t, err)
	return srv, exec
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	w := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHome(t *testing.T) {
	srv, exec := newTestServer(t)

	w := get(srv, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Example Sentences")
	assert.NotContains(t, w.Body.String(), "Examples for")
	assert.Empty(t, exec.terms)
}

func TestSearch_RendersResults(t *testing.T) {
	srv, exec := newTestServer(t)

	w := get(srv, "/search?q=hello")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"hello"}, exec.terms)
	body := w.Body.String()
	assert.Contains(t, body, "Examples for &ldquo;hello&rdquo;")
	assert.Contains(t, body, "Detected: Chinese")
	assert.Contains(t, body, "你好")
	assert.Contains(t, body, "nǐ hǎo")
	assert.Contains(t, body, "Results are generated by AI and may not be accurate.")
	assert.Contains(t, body, `value="hello"`)
}

func TestSearch_BlankQueryRendersHome(t *testing.T) {
	srv, exec := newTestServer(t)

	for _, target := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		w := get(srv, target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.NotContains(t, w.Body.String(), "Examples for", target)
	}
	assert.Empty(t, exec.terms)
}

func TestSearch_ReferenceLanguageHidesDetails(t *testing.T) {
	srv, exec := newTestServer(t)
	exec.outcomes["run"] = sentences.Outcome{
		Kind:             sentences.OutcomeSuccess,
		DetectedLanguage: "English",
		Examples:         []sentences.Example{{Target: "I run daily.", Pronunciation: "eye run", English: "I run every day."}},
	}

	body := get(srv, "/search?q=run").Body.String()

	assert.Contains(t, body, "I run daily.")
	assert.NotContains(t, body, "eye run")
	assert.NotContains(t, body, "I run every day.")
}

func TestSearch_ErrorMessage(t *testing.T) {
	srv, exec := newTestServer(t)
	exec.outcomes["xyz"] = sentences.Outcome{Kind: sentences.OutcomeError, Message: "No results found", StatusCode: 404}

	w := get(srv, "/search?q=xyz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No results found")
	assert.NotContains(t, w.Body.String(), "Copy All")
}

func TestUnknownPathRedirectsHome(t *testing.T) {
	srv, exec := newTestServer(t)

	for _, target := range []string{"/about", "/search/extra", "/foo?q=bar"} {
		w := get(srv, target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/", w.Header().Get("Location"), target)
	}
	assert.Empty(t, exec.terms)
}

func TestExamplesProxy(t *testing.T) {
	srv, exec := newTestServer(t)

	w := get(srv, "/api/examples/good%20morning")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"good morning"}, exec.terms)

	var body examplesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Chinese", body.Language)
	require.Len(t, body.Sentences, 1)
	assert.Equal(t, "nǐ hǎo", body.Sentences[0].Pronunciation)
}

func TestExamplesProxy_EscapedSlash(t *testing.T) {
	srv, exec := newTestServer(t)

	w := get(srv, "/api/examples/a%2Fb")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a/b"}, exec.terms)
}

func TestExamplesProxy_LiteralPercentDecodedOnce(t *testing.T) {
	tests := []struct {
		target string
		term   string
	}{
		{target: "/api/examples/%2541", term: "%41"},
		{target: "/api/examples/100%2525", term: "100%25"},
		{target: "/api/examples/100%25", term: "100%"},
		{target: "/api/examples/a%2Fb%2541", term: "a/b%41"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.target, func(t *testing.T) {
			srv, exec := newTestServer(t)

			w := get(srv, tt.target)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []string{tt.term}, exec.terms)
		})
	}
}

func TestExamplesProxy_Errors(t *testing.T) {
	srv, exec := newTestServer(t)
	exec.outcomes["missing"] = sentences.Outcome{Kind: sentences.OutcomeError, Message: "No results found", StatusCode: 404}
	exec.outcomes["down"] = sentences.Outcome{Kind: sentences.OutcomeError, Message: "An unexpected error occurred. Please try again."}

	w := get(srv, "/api/examples/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"No results found"}`, w.Body.String())

	w = get(srv, "/api/examples/down")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = get(srv, "/api/examples/%20")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"missing", "down"}, exec.terms)
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/examples/hello", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSearch_MissingPinyinFilledOnPageOnly(t *testing.T) {
	exec := &stubExecutor{outcomes: map[string]sentences.Outcome{
		"hello": {
			Kind:             sentences.OutcomeSuccess,
			DetectedLanguage: "Chinese",
			Examples:         []sentences.Example{{Target: "你好", English: "Hello"}},
		},
	}}
	srv, err := New(Config{ReferenceLanguage: "English", Romanizer: pinyin.NewRomanizer()}, exec, nil)
	require.NoError(t, err)

	body := get(srv, "/search?q=hello").Body.String()
	assert.Contains(t, body, "nǐ hǎo")

	// The JSON proxy passes the service data through untouched
	w := get(srv, "/api/examples/hello")
	var resp examplesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sentences, 1)
	assert.Empty(t, resp.Sentences[0].Pronunciation)
}

func TestShutdownBeforeStart(t *testing.T) {
	srv, _ := newTestServer(t)

	require.NoError(t, srv.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept serving after Shutdown")
	}
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	srv, err := New(Config{}, &stubExecutor{}, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.writeJSON(w, http.StatusOK, make(chan int))

	assert.Contains(t, buf.String(), "encoding response")
}
