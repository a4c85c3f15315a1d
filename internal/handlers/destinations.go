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
)

// searchResultLimit bounds destination search results.
const searchResultLimit = 50

type SeedResponse struct {
	OK      bool   `json:"ok"`
	Added   int    `json:"added"`
	Message string `json:"message,omitempty"`
}

type SearchResponse struct {
	OK      bool                 `json:"ok"`
	Count   int                  `json:"count"`
	Results []models.Destination `json:"results"`
}

var sampleDestinations = []interface{}{
	models.Destination{Name: "Tokyo", Country: "Japan", Continent: "Asia", EstimatedCost: 2500, SafetyScore: 9, Tags: []string{"sushi", "temples", "shopping", "anime", "nightlife"}},
	models.Destination{Name: "Paris", Country: "France", Continent: "Europe", EstimatedCost: 2800, SafetyScore: 7, Tags: []string{"museums", "cafes", "landmarks", "art", "nightlife"}},
	models.Destination{Name: "New York", Country: "USA", Continent: "North America", EstimatedCost: 3000, SafetyScore: 7, Tags: []string{"broadway", "food", "shopping", "museums", "skyline"}},
	models.Destination{Name: "Bali", Country: "Indonesia", Continent: "Asia", EstimatedCost: 1600, SafetyScore: 8, Tags: []string{"beaches", "surfing", "temples", "hikes", "resorts"}},
}

// SeedDestinations resets the catalog to the sample entries.
func SeedDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	col := database.DB.Collection(database.ColDestinations)

	// Prevents duplicates on repeat seeding
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		log.Printf("destinations seed: clear failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, SeedResponse{OK: false, Message: "Seed failed"})
		return
	}

	if _, err := col.InsertMany(ctx, sampleDestinations); err != nil {
		log.Printf("destinations seed: insert failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, SeedResponse{OK: false, Message: "Seed failed"})
		return
	}

	respondJSON(w, http.StatusOK, SeedResponse{OK: true, Added: len(sampleDestinations)})
}

// SearchDestinations filters the catalog by keyword, budget, continent and
// minimum safety score.
func SearchDestinations(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	continent := strings.TrimSpace(r.URL.Query().Get("continent"))

	filter := bson.M{}
	if query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"country": pattern},
			{"tags": pattern},
		}
	}
	if maxBudgetStr := r.URL.Query().Get("maxBudget"); maxBudgetStr != "" {
		if maxBudget, err := strconv.ParseFloat(maxBudgetStr, 64); err == nil {
			filter["estimated_cost"] = bson.M{"$lte": maxBudget}
		}
	}
	if continent != "" {
		filter["continent"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(continent) + "$", Options: "i"}
	}
	if minSafetyStr := r.URL.Query().Get("minSafety"); minSafetyStr != "" {
		if minSafety, err := strconv.Atoi(minSafetyStr); err == nil {
			filter["safety_score"] = bson.M{"$gte": minSafety}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetLimit(searchResultLimit)

	cursor, err := database.DB.Collection(database.ColDestinations).Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("destinations search: find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Search failed"})
		return
	}
	defer cursor.Close(ctx)

	results := make([]models.Destination, 0)
	if err := cursor.All(ctx, &results); err != nil {
		log.Printf("destinations search: decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Search failed"})
		return
	}

	respondJSON(w, http.StatusOK, SearchResponse{OK: true, Count: len(results), Results: results})
}
