package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"github.com/wayfarer-travel/wayfarer-backend/internal/services"
)

// alertFeedLimit caps the alert feed and subscription-match responses.
const alertFeedLimit = 100

type CreateAlertRequest struct {
	UserID        string   `json:"user_id"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Details       string   `json:"details"`
	Destination   string   `json:"destination"`
	Country       string   `json:"country"`
	Airport       string   `json:"airport"`
	FlightNumber  string   `json:"flight_number"`
	CurrencyCode  string   `json:"currency_code"`
	PercentChange *float64 `json:"percent_change"`
	Severity      int      `json:"severity"`
}

type CreateAlertResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Alert   models.Alert `json:"alert"`
}

type SubscribeRequest struct {
	Email        string `json:"email"`
	Destination  string `json:"destination"`
	Country      string `json:"country"`
	CurrencyCode string `json:"currency_code"`
	MinSeverity  int    `json:"min_severity"`
}

type SubscribeResponse struct {
	Success      bool                     `json:"success"`
	Message      string                   `json:"message"`
	Subscription models.AlertSubscription `json:"subscription"`
}

type AlertFeedResponse struct {
	OK      bool           `json:"ok"`
	Count   int            `json:"count"`
	Results []models.Alert `json:"results"`
}

// CreateAlert stores a new immutable alert and publishes it to the live
// stream. Admin only.
func CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, err := findUserByID(ctx, req.UserID)
	if err != nil {
		log.Printf("create alert: caller lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}
	if caller == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if !caller.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	if !models.IsValidAlertType(req.Type) {
		respondError(w, http.StatusBadRequest, "Type must be one of flight, weather, currency")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Severity < 1 || req.Severity > 5 {
		respondError(w, http.StatusBadRequest, "Severity must be between 1 and 5")
		return
	}

	alert := models.Alert{
		ID:            primitive.NewObjectID(),
		CreatedAt:     time.Now(),
		Type:          req.Type,
		Title:         req.Title,
		Details:       req.Details,
		Destination:   req.Destination,
		Country:       req.Country,
		Airport:       req.Airport,
		FlightNumber:  req.FlightNumber,
		CurrencyCode:  strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		PercentChange: req.PercentChange,
		Severity:      req.Severity,
	}

	if _, err := database.DB.Collection(database.ColAlerts).InsertOne(ctx, alert); err != nil {
		log.Printf("create alert: insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	// Best-effort broadcast; a pub/sub failure must not fail the write.
	if err := services.PublishAlertEvent(ctx, services.NewAlertEvent(alert)); err != nil {
		log.Printf("create alert: publish failed: %v", err)
	}

	respondJSON(w, http.StatusCreated, CreateAlertResponse{
		Success: true,
		Message: "Alert created",
		Alert:   alert,
	})
}

// ListAlerts returns the filtered alert feed, newest first.
func ListAlerts(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if alertType := strings.TrimSpace(r.URL.Query().Get("type")); alertType != "" {
		filter["type"] = alertType
	}
	if destination := strings.TrimSpace(r.URL.Query().Get("destination")); destination != "" {
		filter["destination"] = primitive.Regex{Pattern: regexp.QuoteMeta(destination), Options: "i"}
	}
	if code := strings.TrimSpace(r.URL.Query().Get("currencyCode")); code != "" {
		filter["currency_code"] = strings.ToUpper(code)
	}
	if minSeverityStr := r.URL.Query().Get("minSeverity"); minSeverityStr != "" {
		if minSeverity, err := strconv.Atoi(minSeverityStr); err == nil && minSeverity > 1 {
			filter["severity"] = bson.M{"$gte": minSeverity}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})
	findOptions.SetLimit(alertFeedLimit)

	cursor, err := database.DB.Collection(database.ColAlerts).Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("list alerts: find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}
	defer cursor.Close(ctx)

	results := make([]models.Alert, 0)
	if err := cursor.All(ctx, &results); err != nil {
		log.Printf("list alerts: decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}

	respondJSON(w, http.StatusOK, AlertFeedResponse{OK: true, Count: len(results), Results: results})
}

// Subscribe saves an alert filter for an email. Identical filters may be
// subscribed more than once; matching is a union so duplicates are harmless.
func Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	minSeverity := req.MinSeverity
	if minSeverity < 1 {
		minSeverity = 1
	}
	if minSeverity > 5 {
		minSeverity = 5
	}

	sub := models.AlertSubscription{
		ID:           primitive.NewObjectID(),
		CreatedAt:    time.Now(),
		Email:        normalizeEmail(req.Email),
		Destination:  strings.TrimSpace(req.Destination),
		Country:      strings.TrimSpace(req.Country),
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		MinSeverity:  minSeverity,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.DB.Collection(database.ColSubscriptions).InsertOne(ctx, sub); err != nil {
		log.Printf("subscribe: insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	respondJSON(w, http.StatusCreated, SubscribeResponse{
		Success:      true,
		Message:      "Subscribed",
		Subscription: sub,
	})
}

// AlertsForUser returns all alerts matching any of the user's subscriptions,
// most severe and most recent first.
func AlertsForUser(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subCursor, err := database.DB.Collection(database.ColSubscriptions).Find(ctx, bson.M{"email": email})
	if err != nil {
		log.Printf("alerts for user: subscription find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}
	defer subCursor.Close(ctx)

	var subs []models.AlertSubscription
	if err := subCursor.All(ctx, &subs); err != nil {
		log.Printf("alerts for user: subscription decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}

	filter := services.BuildSubscriptionFilter(subs)
	if filter == nil {
		respondJSON(w, http.StatusOK, AlertFeedResponse{OK: true, Count: 0, Results: []models.Alert{}})
		return
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{
		{Key: "severity", Value: -1},
		{Key: "created_at", Value: -1},
	})
	findOptions.SetLimit(services.AlertMatchLimit)

	cursor, err := database.DB.Collection(database.ColAlerts).Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("alerts for user: alert find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}
	defer cursor.Close(ctx)

	results := make([]models.Alert, 0)
	if err := cursor.All(ctx, &results); err != nil {
		log.Printf("alerts for user: alert decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load alerts"})
		return
	}

	respondJSON(w, http.StatusOK, AlertFeedResponse{OK: true, Count: len(results), Results: results})
}
