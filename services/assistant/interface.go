package assistant

import (
	"context"

	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// DialogueEngine is the opaque text-in/text-out conversational oracle. It is
// stateless across turns: the full history is supplied on every call. Its
// output is untrusted and may be arbitrarily malformed.
type DialogueEngine interface {
	SendTurn(ctx context.Context, systemContext string, history []models.ChatMessage, message string) (string, error)
}

// ChatService runs one conversational booking turn.
type ChatService interface {
	ProcessTurn(ctx context.Context, userID, userEmail string, req models.ChatRequest) (*models.ChatResponse, error)
}

// SearchService runs one turn of the business search assistant.
type SearchService interface {
	Converse(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}
