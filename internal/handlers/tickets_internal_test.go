package handlers

import (
	"testing"
	"time"

	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

func TestNewTicketThreadPairsMessageZero(t *testing.T) {
	now := time.Now()
	req := CreateTicketRequest{
		Name:        "Ada",
		Email:       "Ada@Example.com",
		Category:    models.TicketCategoryBooking,
		Priority:    models.TicketPriorityHigh,
		Description: "My booking disappeared after payment.",
	}

	ticket, first := newTicketThread(req, "ada@example.com", "user", now)

	if first.TicketID != ticket.ID {
		t.Fatalf("message zero must reference its ticket: got %s, want %s", first.TicketID.Hex(), ticket.ID.Hex())
	}
	if ticket.MessageCount != 1 {
		t.Fatalf("fresh ticket message count = %d, want 1", ticket.MessageCount)
	}
	if !ticket.LastMessageAt.Equal(now) || !first.CreatedAt.Equal(now) {
		t.Fatal("ticket activity and message zero must share the creation timestamp")
	}
	if ticket.Status != models.TicketStatusOpen {
		t.Fatalf("fresh ticket status = %q, want %q", ticket.Status, models.TicketStatusOpen)
	}
	if first.Body != req.Description {
		t.Fatalf("message zero body = %q, want the description", first.Body)
	}
	if first.SenderEmail != "ada@example.com" || first.SenderRole != "user" {
		t.Fatalf("message zero sender = %q/%q, want normalized email and snapshotted role", first.SenderEmail, first.SenderRole)
	}
	if first.IsInternalNote {
		t.Fatal("message zero must never be an internal note")
	}
}
