package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoMessageContent is returned when the upstream payload yields no usable
// reply text.
const NoMessageContent = "No message content found"

type chatRequest struct {
	Prompt   string `json:"prompt"`
	Otoritas string `json:"otoritas"`
	Kategori string `json:"kategori"`
}

// ChatClient talks to the chat prediction endpoint.
type ChatClient struct {
	client  *Client
	url     string
	timeout time.Duration
}

func NewChatClient(client *Client, url string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		client:  client,
		url:     url,
		timeout: timeout,
	}
}

// SendMessage forwards the prompt with retries and returns the raw result.
// The reply text is obtained via ExtractMessage.
func (c *ChatClient) SendMessage(ctx context.Context, prompt, otoritas, kategori string) *Result {
	req := &Request{
		Method:  "POST",
		URL:     c.url,
		Timeout: c.timeout,
		JSON: chatRequest{
			Prompt:   prompt,
			Otoritas: otoritas,
			Kategori: kategori,
		},
		Mock: func() *Result {
			return mockChatResult(prompt, otoritas, kategori)
		},
	}
	return c.client.Dispatch(ctx, req)
}

// TestConnection probes the service health endpoint once, without retries.
func (c *ChatClient) TestConnection(ctx context.Context) *Result {
	req := &Request{
		Method:  "GET",
		URL:     strings.Replace(c.url, "/predict", "/health", 1),
		Timeout: 10 * time.Second,
	}
	return c.client.Do(ctx, req)
}

func mockChatResult(prompt, otoritas, kategori string) *Result {
	message := fmt.Sprintf(
		"Terima kasih atas pertanyaan Anda tentang '%s'. Ini adalah respons simulasi untuk pengembangan. Authority: %s, Category: %s",
		prompt, otoritas, kategori,
	)
	data := map[string]interface{}{
		"mock":           true,
		"message":        message,
		"prompt":         prompt,
		"otoritas":       otoritas,
		"kategori":       kategori,
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

// ExtractMessage pulls the reply text out of an arbitrary upstream payload.
// Order: plain string, then the message/response/text/answer fields, then
// the serialized payload. Empty payloads yield NoMessageContent. This is a
// best-effort contract, not an error path.
func ExtractMessage(data interface{}) string {
	switch v := data.(type) {
	case nil:
		return NoMessageContent
	case string:
		if v == "" {
			return NoMessageContent
		}
		return v
	case map[string]interface{}:
		for _, key := range []string{"message", "response", "text", "answer"} {
			if s, ok := v[key].(string); ok {
				return s
			}
		}
		serialized, err := json.Marshal(v)
		if err != nil {
			return NoMessageContent
		}
		return string(serialized)
	default:
		serialized, err := json.Marshal(v)
		if err != nil {
			return NoMessageContent
		}
		return string(serialized)
	}
}
