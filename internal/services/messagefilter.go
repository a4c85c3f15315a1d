package services

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketMessageFilter builds the query for a ticket's conversation thread.
// For non-admin viewers the filter pins is_internal_note to false, so staff
// notes are excluded at the query level and never reach the client.
func TicketMessageFilter(ticketID primitive.ObjectID, viewerIsAdmin bool) bson.M {
	filter := bson.M{"ticket_id": ticketID}
	if !viewerIsAdmin {
		filter["is_internal_note"] = false
	}
	return filter
}
