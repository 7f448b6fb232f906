package service

import (
	"context"
	"time"

	"chat-relay-be/internal/dto"
	"chat-relay-be/pkg/predict"
)

// ChatDispatcher is the outbound chat call, satisfied by *predict.ChatClient.
type ChatDispatcher interface {
	SendMessage(ctx context.Context, prompt, otoritas, kategori string) *predict.Result
	TestConnection(ctx context.Context) *predict.Result
}

type IChatService interface {
	SendPrompt(ctx context.Context, req *dto.ChatRequest) *dto.ChatResponse
	TestConnection(ctx context.Context) *dto.ConnectionStatusResponse
	Status() *dto.ServiceStatusResponse
}

// chatService relays stateless prompts straight to the prediction API.
// Session-aware sends live in chatSessionService.
type chatService struct {
	dispatcher ChatDispatcher
}

func NewChatService(dispatcher ChatDispatcher) IChatService {
	return &chatService{dispatcher: dispatcher}
}

func (s *chatService) SendPrompt(ctx context.Context, req *dto.ChatRequest) *dto.ChatResponse {
	result := s.dispatcher.SendMessage(ctx, req.Prompt, req.Otoritas, req.Kategori)

	if !result.Success {
		return &dto.ChatResponse{
			Success:   false,
			Message:   "Chat request failed",
			Error:     result.Err,
			Details:   result.Raw,
			Timestamp: time.Now().UTC(),
		}
	}

	return &dto.ChatResponse{
		Success:   true,
		Message:   "Chat response received",
		Response:  predict.ExtractMessage(result.Data),
		RawData:   result.Data,
		Timestamp: time.Now().UTC(),
	}
}

func (s *chatService) TestConnection(ctx context.Context) *dto.ConnectionStatusResponse {
	result := s.dispatcher.TestConnection(ctx)

	if !result.Success {
		return &dto.ConnectionStatusResponse{
			Success: false,
			Message: "Chat API is not reachable",
			Error:   result.Err,
		}
	}

	return &dto.ConnectionStatusResponse{
		Success:    true,
		Message:    "Chat API is reachable",
		StatusCode: result.StatusCode,
	}
}

func (s *chatService) Status() *dto.ServiceStatusResponse {
	return &dto.ServiceStatusResponse{
		Success:   true,
		Service:   "Chat Bot API",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC(),
		Endpoints: map[string]string{
			"chat":            "POST /api/chat",
			"test_connection": "GET /api/chat/test-connection",
			"status":          "GET /api/chat/status",
		},
	}
}
