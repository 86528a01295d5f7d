package models

// ChatMessage is one turn of the resent conversation history.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the payload coming from the frontend into /api/chatbot/chat.
// The full history is resent on every turn; no conversation state lives on
// the server.
type ChatRequest struct {
	BusinessID string        `json:"businessId" binding:"required"`
	History    []ChatMessage `json:"history"`
	Message    string        `json:"message" binding:"required"`
}

// ChatAction values returned alongside a reply.
const (
	ActionBookingSuccess = "BOOKING_SUCCESS"
)

// DaySlots holds the bookable start times ("HH:MM") for a single date.
type DaySlots struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// SlotsView is the availability snapshot attached to a reply for client-side
// display. It is kept out of the natural-language response text.
type SlotsView struct {
	Today    DaySlots `json:"today"`
	Tomorrow DaySlots `json:"tomorrow"`
	DayAfter DaySlots `json:"dayAfter"`
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Response   string     `json:"response"`
	Action     string     `json:"action,omitempty"`
	ReceiptRef string     `json:"receiptRef,omitempty"`
	SlotsView  *SlotsView `json:"slotsView,omitempty"`
}
