// File: services/assistant/gemini_client.go
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/JustinVargasQ/ProyectoBueno/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEngine implements DialogueEngine on top of the Gemini API.
type GeminiEngine struct {
	model *genai.GenerativeModel
}

// NewGeminiEngine builds a Gemini-backed dialogue engine. A missing API key
// is a ConfigurationError: no turn can be served without it.
func NewGeminiEngine(apiKey, modelName string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Message: "dialogue engine API key is not configured"}
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	return &GeminiEngine{model: model}, nil
}

// SendTurn replays the system context plus the resent history into a fresh
// chat session and sends the new message. The caller bounds ctx with the
// dialogue timeout.
func (g *GeminiEngine) SendTurn(ctx context.Context, systemContext string, history []models.ChatMessage, message string) (string, error) {
	cs := g.model.StartChat()

	cs.History = make([]*genai.Content, 0, len(history)+1)
	cs.History = append(cs.History, &genai.Content{
		Role:  "user",
		Parts: []genai.Part{genai.Text(systemContext)},
	})
	for _, msg := range history {
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", &ExternalServiceError{Op: "dialogue engine", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ExternalServiceError{Op: "dialogue engine", Err: fmt.Errorf("empty response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}
