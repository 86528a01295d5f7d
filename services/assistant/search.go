// File: services/assistant/search.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	businessRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// businessSummary is the trimmed view of a business handed to the search
// engine as catalogue context.
type businessSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	AvgRating   float64  `json:"avg_rating"`
}

// DefaultSearchService answers discovery conversations over the published
// business catalogue. The engine's reply is passed through untouched; the
// client interprets the [NAVIGATE_TO: ...] and [IDs: ...] markers.
type DefaultSearchService struct {
	Engine       DialogueEngine
	BusinessRepo businessRepo.BusinessRepository
}

func (s *DefaultSearchService) Converse(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	businesses, err := s.BusinessRepo.GetPublished()
	if err != nil {
		return "", fmt.Errorf("failed to load published businesses: %w", err)
	}

	summaries := make([]businessSummary, 0, len(businesses))
	for _, b := range businesses {
		summaries = append(summaries, businessSummary{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Categories:  b.Categories,
			AvgRating:   b.AvgRating,
		})
	}
	catalogue, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("failed to encode business catalogue: %w", err)
	}

	systemContext := buildSearchContext(string(catalogue))

	reply, err := s.Engine.SendTurn(ctx, systemContext, history, message)
	if err != nil {
		if IsExternal(err) {
			return "", err
		}
		return "", &ExternalServiceError{Op: "search assistant", Err: err}
	}
	return reply, nil
}

func buildSearchContext(catalogue string) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly search assistant for the ServiBook platform. ")
	sb.WriteString("Your mission is to help users find the right business conversationally.\n\n")
	sb.WriteString("Conversation flow:\n")
	sb.WriteString("1. Understand what the user is looking for and suggest the best options from the business list below.\n")
	sb.WriteString("2. Present findings in a friendly tone and ask if they want to see details.\n")
	sb.WriteString("3. If the user changes their mind, adapt and search again.\n")
	sb.WriteString("4. When the user shows interest in one specific business, ask one final confirmation question naming the business.\n")
	sb.WriteString("5. ONLY after the user confirms, your ENTIRE reply must be exactly the navigation command, nothing else:\n")
	sb.WriteString("   [NAVIGATE_TO: \"BUSINESS_ID\"]\n\n")
	sb.WriteString("Available businesses (context):\n")
	sb.WriteString(catalogue)
	sb.WriteString("\n\nResponse rules:\n")
	sb.WriteString("- Every text reply (except the NAVIGATE command) MUST end with the list of IDs you are currently suggesting, ")
	sb.WriteString("in the format: [IDs: \"id1\", \"id2\", ...]\n")
	sb.WriteString("- If nothing matches, end with an empty list: [IDs: ]\n")
	sb.WriteString("- Only suggest businesses from the list above; never invent one.")
	return sb.String()
}
