package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return &Client{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		MaxTokens:  256,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func successBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"content":     []map[string]string{{"type": "text", "text": "analysis result"}},
		"model":       "test-model",
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 10, "output_tokens": 20},
	})
	return body
}

func TestCompleteSuccess(t *testing.T) {
	var gotVersion, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.NotEmpty(t, req.Messages)

		w.Write(successBody())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Complete(context.Background(), "system", TextMessage("hello"))
	require.NoError(t, err)
	assert.Equal(t, "analysis result", res.Text)
	assert.Equal(t, 10, res.Usage.InputTokens)
	assert.Equal(t, 20, res.Usage.OutputTokens)
	assert.Equal(t, "test-key", gotKey)
	assert.NotEmpty(t, gotVersion)
}

func TestCompleteRetriesOnceOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(successBody())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Complete(context.Background(), "", TextMessage("hello"))
	require.NoError(t, err)
	assert.Equal(t, "analysis result", res.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteGivesUpAfterSecond5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Complete(context.Background(), "", TextMessage("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteDoesNotRetry4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_request"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Complete(context.Background(), "", TextMessage("hello"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write(successBody())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.HTTPClient.Timeout = 50 * time.Millisecond
	_, err := c.Complete(context.Background(), "", TextMessage("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	c := &Client{BaseURL: "http://localhost:0", HTTPClient: http.DefaultClient}
	_, err := c.Complete(context.Background(), "", TextMessage("hello"))
	assert.Error(t, err)
}

func TestAnalyzeDocumentUsesVisionForImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "image", req.Messages[0].Content[0].Type)
		assert.Equal(t, "image/jpeg", req.Messages[0].Content[0].Source.MediaType)
		w.Write(successBody())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.AnalyzeDocument(context.Background(), "image/jpeg", []byte{0xff, 0xd8}, "church record")
	require.NoError(t, err)
}

func TestAnalyzeDocumentSendsTextInline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages[0].Content, 1)
		assert.Equal(t, "text", req.Messages[0].Content[0].Type)
		assert.Contains(t, req.Messages[0].Content[0].Text, "born 1842")
		w.Write(successBody())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.AnalyzeDocument(context.Background(), "text/plain", []byte("born 1842 in Bavaria"), "")
	require.NoError(t, err)
}
