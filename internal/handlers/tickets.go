package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"github.com/wayfarer-travel/wayfarer-backend/internal/services"
)

type CreateTicketRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

type TicketResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Ticket  models.Ticket `json:"ticket"`
}

type TicketListResponse struct {
	Success bool            `json:"success"`
	Tickets []models.Ticket `json:"tickets"`
}

type TicketDetailsResponse struct {
	Success  bool             `json:"success"`
	Ticket   models.Ticket    `json:"ticket"`
	Messages []models.Message `json:"messages"`
}

type UpdateTicketRequest struct {
	UserID   string  `json:"user_id"`
	Status   string  `json:"status"`
	Assignee *string `json:"assignee"`
}

// CreateTicket opens a new support case. The description is stored as the
// thread's first message, so a fresh ticket always has messageCount 1.
func CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Category == "" || req.Priority == "" || req.Description == "" {
		respondError(w, http.StatusBadRequest, "Name, email, category, priority, and description are required")
		return
	}
	if !models.IsValidCategory(req.Category) {
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	if !models.IsValidPriority(req.Priority) {
		respondError(w, http.StatusBadRequest, "Unknown priority")
		return
	}

	email := normalizeEmail(req.Email)
	now := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Snapshot the requester's role for message zero. Tickets can be opened
	// by email without an account; those senders are plain users.
	senderRole := "user"
	var requester models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"email": email}).Decode(&requester)
	if err == nil {
		senderRole = requester.Role()
	} else if err != mongo.ErrNoDocuments {
		log.Printf("create ticket: requester lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create ticket")
		return
	}

	ticket, first := newTicketThread(req, email, senderRole, now)

	// Message zero goes in first, so a stored ticket never points at an
	// empty thread.
	if _, err := database.DB.Collection(database.ColMessages).InsertOne(ctx, first); err != nil {
		log.Printf("create ticket: first message insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create ticket")
		return
	}
	if _, err := database.DB.Collection(database.ColTickets).InsertOne(ctx, ticket); err != nil {
		log.Printf("create ticket: insert failed: %v", err)
		if _, derr := database.DB.Collection(database.ColMessages).DeleteOne(ctx, bson.M{"_id": first.ID}); derr != nil {
			log.Printf("create ticket: message cleanup failed: %v", derr)
		}
		respondError(w, http.StatusInternalServerError, "Failed to create ticket")
		return
	}

	respondJSON(w, http.StatusCreated, TicketResponse{
		Success: true,
		Message: "Ticket created",
		Ticket:  ticket,
	})
}

// ListTickets returns the caller's view of the queue: admins see every
// ticket, everyone else only their own (matched by email).
func ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, errResp := requireCaller(ctx, w, r.URL.Query().Get("userId"))
	if errResp {
		return
	}

	filter := bson.M{}
	if !caller.IsAdmin {
		filter["email"] = caller.Email
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"last_message_at": -1})

	cursor, err := database.DB.Collection(database.ColTickets).Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("list tickets: find failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load tickets")
		return
	}
	defer cursor.Close(ctx)

	tickets := make([]models.Ticket, 0)
	if err := cursor.All(ctx, &tickets); err != nil {
		log.Printf("list tickets: decode failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load tickets")
		return
	}

	respondJSON(w, http.StatusOK, TicketListResponse{Success: true, Tickets: tickets})
}

// GetTicketDetails returns a ticket together with its visible conversation.
func GetTicketDetails(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("ticket details: message load failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load ticket")
		return
	}

	respondJSON(w, http.StatusOK, TicketDetailsResponse{
		Success:  true,
		Ticket:   *ticket,
		Messages: messages,
	})
}

// UpdateTicketStatus moves a ticket between Open, Pending and Resolved.
// Closed cannot be set through this route. Admin only.
func UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, errResp := requireCaller(ctx, w, req.UserID)
	if errResp {
		return
	}
	if !caller.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	if !models.IsSettableStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Status must be one of Open, Pending, Resolved")
		return
	}

	ticket, ok := findTicket(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	set := bson.M{"status": req.Status}
	if req.Assignee != nil {
		set["assignee"] = strings.TrimSpace(*req.Assignee)
	}
	if req.Status == models.TicketStatusResolved {
		set["resolved_at"] = time.Now()
	}

	var updated models.Ticket
	after := options.After
	err := database.DB.Collection(database.ColTickets).FindOneAndUpdate(
		ctx,
		bson.M{"_id": ticket.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		log.Printf("update ticket: update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update ticket")
		return
	}

	respondJSON(w, http.StatusOK, TicketResponse{Success: true, Message: "Ticket updated", Ticket: updated})
}

// DeleteTicket removes a ticket and its whole message thread. Admin only.
func DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, errResp := requireCaller(ctx, w, r.URL.Query().Get("userId"))
	if errResp {
		return
	}
	if !caller.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	ticket, ok := findTicket(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// The thread is cascaded before the ticket; a failed cascade leaves
	// the ticket intact rather than orphaning its messages.
	if _, err := database.DB.Collection(database.ColMessages).DeleteMany(ctx, bson.M{"ticket_id": ticket.ID}); err != nil {
		log.Printf("delete ticket: message cascade failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete ticket messages")
		return
	}
	if _, err := database.DB.Collection(database.ColTickets).DeleteOne(ctx, bson.M{"_id": ticket.ID}); err != nil {
		log.Printf("delete ticket: delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete ticket")
		return
	}

	respondJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Ticket deleted"})
}

// --- shared ticket helpers ---

// newTicketThread builds a fresh ticket and its first message from a
// validated request. The description doubles as message zero, so the
// counters start at one and the message points back at the ticket.
func newTicketThread(req CreateTicketRequest, email, senderRole string, now time.Time) (models.Ticket, models.Message) {
	ticket := models.Ticket{
		ID:            primitive.NewObjectID(),
		CreatedAt:     now,
		Name:          req.Name,
		Email:         email,
		Category:      req.Category,
		Priority:      req.Priority,
		Description:   req.Description,
		Status:        models.TicketStatusOpen,
		MessageCount:  1,
		LastMessageAt: now,
	}
	first := models.Message{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		TicketID:    ticket.ID,
		SenderName:  req.Name,
		SenderEmail: email,
		SenderRole:  senderRole,
		Body:        req.Description,
	}
	return ticket, first
}

// requireCaller resolves the client-supplied user id, writing the error
// response itself. The second return is true when a response was written.
func requireCaller(ctx context.Context, w http.ResponseWriter, userID string) (*models.User, bool) {
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "User identification required")
		return nil, true
	}
	caller, err := findUserByID(ctx, userID)
	if err != nil {
		log.Printf("caller lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Request failed")
		return nil, true
	}
	if caller == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return nil, true
	}
	return caller, false
}

// findTicket loads a ticket by hex id, writing 404 on a bad id or missing doc.
func findTicket(ctx context.Context, w http.ResponseWriter, id string) (*models.Ticket, bool) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Ticket not found")
		return nil, false
	}

	var ticket models.Ticket
	err = database.DB.Collection(database.ColTickets).FindOne(ctx, bson.M{"_id": objectID}).Decode(&ticket)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "Ticket not found")
		return nil, false
	}
	if err != nil {
		log.Printf("ticket lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load ticket")
		return nil, false
	}
	return &ticket, true
}

// canViewTicket: admins see everything, requesters see their own tickets.
func canViewTicket(user *models.User, ticket *models.Ticket) bool {
	return user.IsAdmin || strings.EqualFold(user.Email, ticket.Email)
}

// loadTicketMessages returns a ticket's thread oldest-first. Non-admin viewers
// never receive internal notes.
func loadTicketMessages(ctx context.Context, ticketID primitive.ObjectID, viewerIsAdmin bool) ([]models.Message, error) {
	filter := services.TicketMessageFilter(ticketID, viewerIsAdmin)

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": 1})

	cursor, err := database.DB.Collection(database.ColMessages).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]models.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
