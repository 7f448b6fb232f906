package predict

import (
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chat-relay-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithBaseDelay(5 * time.Millisecond)}
	return NewClient(logger.NewNopLogger(), append(base, opts...)...)
}

func TestDispatchRetriesThenReturnsLastFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"model overloaded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithMaxRetries(3))

	start := time.Now()
	res := c.Dispatch(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		JSON:   map[string]string{"prompt": "hi"},
	})
	elapsed := time.Since(start)

	assert.False(t, res.Success)
	assert.Equal(t, FailureRejected, res.Kind)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, `{"detail":"model overloaded"}`, res.Raw)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))

	// Linear backoff: 1×5ms + 2×5ms between the three attempts.
	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)
}

func TestDispatchSucceedsAfterTransientFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"response":"pong"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithMaxRetries(3))

	res := c.Dispatch(context.Background(), &Request{Method: http.MethodPost, URL: srv.URL})

	assert.True(t, res.Success)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pong", data["response"])
}

func TestDispatchTransportFailure(t *testing.T) {
	c := newTestClient(t, WithMaxRetries(2))

	res := c.Dispatch(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    "http://127.0.0.1:1/unreachable",
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnreachable, res.Kind)
	assert.Contains(t, res.Err, "request failed")
}

func TestDispatchMockModeSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := newTestClient(t, WithMockMode(true))

	res := c.Dispatch(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Mock: func() *Result {
			return &Result{Success: true, StatusCode: 200, Data: "mocked"}
		},
	})

	assert.True(t, res.Success)
	assert.Equal(t, "mocked", res.Data)
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
}

func TestDispatchMockModeWithoutMockStillDispatches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithMockMode(true))

	res := c.Dispatch(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})

	assert.True(t, res.Success)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestDispatchHonorsContextCancelDuringBackoff(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, WithMaxRetries(3), WithBaseDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := c.Dispatch(ctx, &Request{Method: http.MethodGet, URL: srv.URL})

	assert.False(t, res.Success)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestMultipartBodyRebuiltPerAttempt(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)

		reader := multipart.NewReader(r.Body, params["boundary"])
		form, err := reader.ReadForm(1 << 20)
		require.NoError(t, err)

		require.Len(t, form.File["prompt"], 1)
		assert.Equal(t, "report.pdf", form.File["prompt"][0].Filename)
		assert.Equal(t, []string{"SDM"}, form.Value["otoritas"])

		if atomic.AddInt32(&hits, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"stored"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithMaxRetries(3))

	res := c.Dispatch(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Attachment: &Attachment{
			FieldName: "prompt",
			Filename:  "report.pdf",
			Content:   []byte("%PDF-1.4 fake"),
		},
		Fields: map[string]string{"otoritas": "SDM"},
	})

	assert.True(t, res.Success)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestDoDecodesNonJSONBodyAsString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text answer"))
	}))
	defer srv.Close()

	c := newTestClient(t)

	res := c.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})

	assert.True(t, res.Success)
	assert.Equal(t, "plain text answer", res.Data)
}
