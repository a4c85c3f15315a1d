package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

type PostMessageRequest struct {
	UserID         string   `json:"user_id"`
	Body           string   `json:"body"`
	IsInternalNote bool     `json:"is_internal_note"`
	Attachments    []string `json:"attachments"`
}

type MessageListResponse struct {
	Success  bool             `json:"success"`
	Messages []models.Message `json:"messages"`
}

type PostMessageResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	PostedMessage models.Message `json:"posted_message"`
	TicketStatus  string         `json:"ticket_status"`
}

// ListMessages replays a ticket's conversation oldest-first. The caller must
// be an admin or the ticket's requester; internal notes are stripped for
// non-admin viewers.
func ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ticket, ok := findTicket(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller, errResp := requireCaller(ctx, w, r.URL.Query().Get("userId"))
	if errResp {
		return
	}
	if !canViewTicket(caller, ticket) {
		respondError(w, http.StatusForbidden, "You do not have access to this ticket")
		return
	}

	messages, err := loadTicketMessages(ctx, ticket.ID, caller.IsAdmin)
	if err != nil {
		log.Printf("list messages: load failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	respondJSON(w, http.StatusOK, MessageListResponse{Success: true, Messages: messages})
}

// PostMessage appends to a ticket's thread. Sender identity and role are
// snapshotted from the current user record. A requester reply to a Resolved
// or Closed ticket reopens it; admin replies never change the status.
func PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Body == "" {
		respondError(w, http.StatusBadRequest, "Message body is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ticket, ok := findTicket(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	sender, errResp := requireCaller(ctx, w, req.UserID)
	if errResp {
		return
	}
	if !canViewTicket(sender, ticket) {
		respondError(w, http.StatusForbidden, "You do not have access to this ticket")
		return
	}

	now := time.Now()
	message := models.Message{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		TicketID:    ticket.ID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		SenderRole:  sender.Role(),
		Body:        req.Body,
		Attachments: req.Attachments,
		// Only admins may write internal notes; the flag is dropped silently
		// for everyone else.
		IsInternalNote: req.IsInternalNote && sender.IsAdmin,
	}

	if _, err := database.DB.Collection(database.ColMessages).InsertOne(ctx, message); err != nil {
		log.Printf("post message: insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	// Counter bump, timestamp and the reopen transition go through one atomic
	// update so concurrent replies cannot lose counts.
	update := bson.M{
		"$inc": bson.M{"message_count": 1},
		"$set": bson.M{"last_message_at": now},
	}
	newStatus := ticket.Status
	if models.ShouldReopenOnReply(ticket.Status, sender.IsAdmin) {
		update["$set"].(bson.M)["status"] = models.TicketStatusOpen
		newStatus = models.TicketStatusOpen
	}

	if _, err := database.DB.Collection(database.ColTickets).UpdateOne(ctx, bson.M{"_id": ticket.ID}, update); err != nil {
		log.Printf("post message: counter update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update ticket")
		return
	}

	respondJSON(w, http.StatusCreated, PostMessageResponse{
		Success:       true,
		Message:       "Message posted",
		PostedMessage: message,
		TicketStatus:  newStatus,
	})
}
