// File: handlers/chat.go
package handlers

import (
	"net/http"

	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/services/assistant"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler drives one turn of the booking conversation.
func ChatHandler(svc assistant.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat request", "details": err.Error()})
			return
		}

		userID := c.GetString("userID")
		userEmail := c.GetString("userEmail")

		resp, err := svc.ProcessTurn(c.Request.Context(), userID, userEmail, req)
		if err != nil {
			respondChatError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SearchAssistantHandler drives one turn of the discovery conversation.
func SearchAssistantHandler(svc assistant.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			History []models.ChatMessage `json:"history"`
			Message string               `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant request", "details": err.Error()})
			return
		}

		reply, err := svc.Converse(c.Request.Context(), req.History, req.Message)
		if err != nil {
			respondChatError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": reply})
	}
}

func respondChatError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case availability.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case assistant.IsExternal(err):
		logger.Error("dialogue engine unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The assistant is temporarily unavailable. Please try again."})
	case assistant.IsConfiguration(err):
		logger.Error("assistant misconfigured", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "The assistant is not configured."})
	default:
		logger.Error("chat turn failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong processing your message."})
	}
}
