package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses
const (
	TicketStatusOpen     = "Open"
	TicketStatusPending  = "Pending"
	TicketStatusResolved = "Resolved"
	TicketStatusClosed   = "Closed"
)

// Ticket categories
const (
	TicketCategoryBooking   = "booking"
	TicketCategoryPayment   = "payment"
	TicketCategoryAccount   = "account"
	TicketCategoryTechnical = "technical"
	TicketCategoryOther     = "other"
)

// Ticket priorities
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// IsSettableStatus reports whether s is a status the update route may set.
// Closed is a valid stored state but not a settable target.
func IsSettableStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusResolved:
		return true
	}
	return false
}

// IsValidCategory reports whether c is a known ticket category.
func IsValidCategory(c string) bool {
	switch c {
	case TicketCategoryBooking, TicketCategoryPayment, TicketCategoryAccount,
		TicketCategoryTechnical, TicketCategoryOther:
		return true
	}
	return false
}

// IsValidPriority reports whether p is a known ticket priority.
func IsValidPriority(p string) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ShouldReopenOnReply reports whether a new message from a sender with the
// given admin flag must flip the ticket back to Open. Replies from the
// requester to a terminal ticket reopen it; admin replies never do.
func ShouldReopenOnReply(status string, senderIsAdmin bool) bool {
	if senderIsAdmin {
		return false
	}
	return status == TicketStatusResolved || status == TicketStatusClosed
}

// Ticket is a support case with an append-only message thread.
type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"` // requester email, stored lowercased

	Category    string `bson:"category" json:"category"`
	Priority    string `bson:"priority" json:"priority"`
	Description string `bson:"description" json:"description"`
	Status      string `bson:"status" json:"status"`
	Assignee    string `bson:"assignee,omitempty" json:"assignee,omitempty"`

	// Denormalized thread counters, bumped atomically with each insert.
	MessageCount  int64     `bson:"message_count" json:"message_count"`
	LastMessageAt time.Time `bson:"last_message_at" json:"last_message_at"`

	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// Message is one entry in a ticket's conversation thread. The sender's
// name/email/role are snapshotted at send time and never re-derived, so the
// thread stays an accurate record even if the user's role changes later.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	TicketID primitive.ObjectID `bson:"ticket_id" json:"ticket_id"`

	SenderName  string `bson:"sender_name" json:"sender_name"`
	SenderEmail string `bson:"sender_email" json:"sender_email"`
	SenderRole  string `bson:"sender_role" json:"sender_role"` // "admin" or "user"

	Body        string   `bson:"body" json:"body"`
	Attachments []string `bson:"attachments,omitempty" json:"attachments,omitempty"`

	// Internal notes are visible to admin viewers only.
	IsInternalNote bool `bson:"is_internal_note" json:"is_internal_note"`
}
