package predict

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UploadClient forwards files to the upload prediction endpoint.
type UploadClient struct {
	client  *Client
	url     string
	timeout time.Duration
}

func NewUploadClient(client *Client, url string, timeout time.Duration) *UploadClient {
	return &UploadClient{
		client:  client,
		url:     url,
		timeout: timeout,
	}
}

// UploadFile sends the file as the "prompt" multipart part together with the
// classification form fields, retrying on failure. The attachment bytes are
// buffered so every retry rebuilds a complete body.
func (c *UploadClient) UploadFile(ctx context.Context, attachment *Attachment, otoritas, category, tipeData string) *Result {
	if attachment.FieldName == "" {
		attachment.FieldName = "prompt"
	}

	req := &Request{
		Method:     "POST",
		URL:        c.url,
		Timeout:    c.timeout,
		Attachment: attachment,
		Fields: map[string]string{
			"otoritas":  otoritas,
			"category":  category,
			"tipe_data": tipeData,
		},
		Mock: func() *Result {
			return mockUploadResult(attachment, otoritas, category, tipeData)
		},
	}
	return c.client.Dispatch(ctx, req)
}

// TestConnection probes the upload endpoint once, without retries.
func (c *UploadClient) TestConnection(ctx context.Context) *Result {
	req := &Request{
		Method:  "GET",
		URL:     c.url,
		Timeout: 10 * time.Second,
	}
	return c.client.Do(ctx, req)
}

func mockUploadResult(attachment *Attachment, otoritas, category, tipeData string) *Result {
	data := map[string]interface{}{
		"mock":           true,
		"status":         "uploaded",
		"filename":       attachment.Filename,
		"size":           len(attachment.Content),
		"otoritas":       otoritas,
		"category":       category,
		"tipe_data":      tipeData,
		"correlation_id": uuid.NewString(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
	raw, _ := json.Marshal(data)
	return &Result{
		Success:    true,
		StatusCode: 200,
		Data:       data,
		Raw:        string(raw),
	}
}
