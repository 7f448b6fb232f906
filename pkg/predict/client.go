// Package predict issues retried calls to the external prediction services.
// One Client is shared by the chat and upload endpoints; each outbound call
// is described by a Request and answered with a Result that keeps the raw
// upstream body for diagnostics.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"chat-relay-be/internal/pkg/logger"
)

// FailureKind classifies why a dispatch failed.
type FailureKind string

const (
	FailureNone FailureKind = ""
	// FailureUnreachable is a transport-level failure (connection refused,
	// timeout, DNS).
	FailureUnreachable FailureKind = "unreachable"
	// FailureRejected is a non-2xx answer from the service.
	FailureRejected FailureKind = "rejected"
)

// Result is the outcome of a dispatch. On failure Raw carries the upstream
// body verbatim so callers can surface it.
type Result struct {
	Success    bool
	StatusCode int
	Data       interface{}
	Raw        string
	Err        string
	Kind       FailureKind
}

// Attachment is a file forwarded as a multipart part. Content is kept in
// memory so the body can be rebuilt for every retry attempt.
type Attachment struct {
	FieldName string
	Filename  string
	Content   []byte
}

// Request describes a single outbound call.
type Request struct {
	Method  string
	URL     string
	Timeout time.Duration

	// JSON is the request payload for JSON calls. When Attachment is set the
	// call is multipart instead and Fields become form values.
	JSON       interface{}
	Attachment *Attachment
	Fields     map[string]string

	// Mock builds the synthetic success returned when the client runs in
	// mock mode. Requests without a Mock always hit the network.
	Mock func() *Result
}

type Client struct {
	httpClient *http.Client
	logger     logger.ILogger
	maxRetries int
	baseDelay  time.Duration
	mock       bool
}

type Option func(*Client)

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithMockMode short-circuits dispatches carrying a Mock constructor. This is
// the single development bypass; nothing else in the client cares about the
// environment.
func WithMockMode(enabled bool) Option {
	return func(c *Client) {
		c.mock = enabled
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(log logger.ILogger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     log,
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch runs the request with bounded retries and linear backoff
// (attempt × baseDelay). After exhausting the attempts the last failure is
// returned verbatim; no synthetic success is fabricated.
func (c *Client) Dispatch(ctx context.Context, req *Request) *Result {
	if c.mock && req.Mock != nil {
		c.logger.Info("predict", "Mock mode active, skipping external call", map[string]interface{}{
			"url": req.URL,
		})
		return req.Mock()
	}

	var res *Result
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		res = c.Do(ctx, req)

		if res.Success {
			c.logger.Info("predict", "External call succeeded", map[string]interface{}{
				"url":     req.URL,
				"attempt": attempt,
				"status":  res.StatusCode,
			})
			return res
		}

		c.logger.Warn("predict", "External call failed", map[string]interface{}{
			"url":         req.URL,
			"attempt":     attempt,
			"max_retries": c.maxRetries,
			"status":      res.StatusCode,
			"error":       res.Err,
		})

		if attempt < c.maxRetries {
			delay := time.Duration(attempt) * c.baseDelay
			select {
			case <-ctx.Done():
				return res
			case <-time.After(delay):
			}
		}
	}

	return res
}

// Do performs a single attempt without retrying. Probe endpoints use it
// directly.
func (c *Client) Do(ctx context.Context, req *Request) *Result {
	body, contentType, err := buildBody(req)
	if err != nil {
		return &Result{
			Kind: FailureUnreachable,
			Err:  fmt.Sprintf("build request body: %v", err),
		}
	}

	attemptCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, body)
	if err != nil {
		return &Result{
			Kind: FailureUnreachable,
			Err:  fmt.Sprintf("create request: %v", err),
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Result{
			Kind: FailureUnreachable,
			Err:  fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Result{
			StatusCode: resp.StatusCode,
			Kind:       FailureUnreachable,
			Err:        fmt.Sprintf("read response: %v", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Result{
			StatusCode: resp.StatusCode,
			Raw:        string(raw),
			Kind:       FailureRejected,
			Err:        fmt.Sprintf("request failed with status: %d", resp.StatusCode),
		}
	}

	return &Result{
		Success:    true,
		StatusCode: resp.StatusCode,
		Data:       decodeBody(raw),
		Raw:        string(raw),
	}
}

func buildBody(req *Request) (io.Reader, string, error) {
	if req.Attachment != nil {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		part, err := writer.CreateFormFile(req.Attachment.FieldName, req.Attachment.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(req.Attachment.Content); err != nil {
			return nil, "", err
		}

		for key, value := range req.Fields {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}

		if err := writer.Close(); err != nil {
			return nil, "", err
		}
		return &buf, writer.FormDataContentType(), nil
	}

	if req.JSON != nil {
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	}

	return nil, "", nil
}

// decodeBody attempts JSON decoding; bodies that are not valid JSON are kept
// as plain strings so the extraction fallback still has something to work on.
func decodeBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return data
}
