package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"github.com/wayfarer-travel/wayfarer-backend/internal/services"
)

type CurrencyCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}

type CurrencyCodesResponse struct {
	OK    bool           `json:"ok"`
	Codes []CurrencyCode `json:"codes"`
}

type LeaderboardResponse struct {
	OK      bool                        `json:"ok"`
	Base    string                      `json:"base"`
	Amount  float64                     `json:"amount"`
	Results []services.LeaderboardEntry `json:"results"`
}

var sampleCurrencies = []interface{}{
	models.Currency{Country: "United States", CurrencyCode: "USD", CostIndex: 100},
	models.Currency{Country: "Mexico", CurrencyCode: "MXN", CostIndex: 55},
	models.Currency{Country: "Japan", CurrencyCode: "JPY", CostIndex: 90},
	models.Currency{Country: "United Kingdom", CurrencyCode: "GBP", CostIndex: 110},
	models.Currency{Country: "Switzerland", CurrencyCode: "CHF", CostIndex: 145},
	models.Currency{Country: "China", CurrencyCode: "CNY", CostIndex: 60},
	models.Currency{Country: "India", CurrencyCode: "INR", CostIndex: 35},
	models.Currency{Country: "Brazil", CurrencyCode: "BRL", CostIndex: 55},
	models.Currency{Country: "South Korea", CurrencyCode: "KRW", CostIndex: 85},
	models.Currency{Country: "Singapore", CurrencyCode: "SGD", CostIndex: 95},
	models.Currency{Country: "Canada", CurrencyCode: "CAD", CostIndex: 105},
	models.Currency{Country: "Australia", CurrencyCode: "AUD", CostIndex: 115},
	models.Currency{Country: "Thailand", CurrencyCode: "THB", CostIndex: 50},
	models.Currency{Country: "Malaysia", CurrencyCode: "MYR", CostIndex: 50},
	models.Currency{Country: "Sweden", CurrencyCode: "SEK", CostIndex: 100},
	models.Currency{Country: "Norway", CurrencyCode: "NOK", CostIndex: 130},
	models.Currency{Country: "Denmark", CurrencyCode: "DKK", CostIndex: 125},
	models.Currency{Country: "New Zealand", CurrencyCode: "NZD", CostIndex: 105},
	models.Currency{Country: "Hong Kong", CurrencyCode: "HKD", CostIndex: 90},
	models.Currency{Country: "Philippines", CurrencyCode: "PHP", CostIndex: 45},
}

// SeedCurrencies inserts the sample cost index once.
func SeedCurrencies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	col := database.DB.Collection(database.ColCurrencies)

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("currency seed: count failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, SeedResponse{OK: false, Message: "Seed failed"})
		return
	}
	if count > 0 {
		respondJSON(w, http.StatusOK, SeedResponse{OK: true, Added: 0, Message: "Already seeded"})
		return
	}

	if _, err := col.InsertMany(ctx, sampleCurrencies); err != nil {
		log.Printf("currency seed: insert failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, SeedResponse{OK: false, Message: "Seed failed"})
		return
	}

	respondJSON(w, http.StatusOK, SeedResponse{OK: true, Added: len(sampleCurrencies)})
}

// GetCurrencyCodes lists the seeded currency codes sorted alphabetically.
func GetCurrencyCodes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetProjection(bson.M{"country": 1, "currency_code": 1})
	findOptions.SetSort(bson.M{"currency_code": 1})

	cursor, err := database.DB.Collection(database.ColCurrencies).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Printf("currency codes: find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load currency codes"})
		return
	}
	defer cursor.Close(ctx)

	var docs []models.Currency
	if err := cursor.All(ctx, &docs); err != nil {
		log.Printf("currency codes: decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Failed to load currency codes"})
		return
	}

	codes := make([]CurrencyCode, 0, len(docs))
	for _, d := range docs {
		codes = append(codes, CurrencyCode{Code: d.CurrencyCode, Country: d.Country})
	}

	respondJSON(w, http.StatusOK, CurrencyCodesResponse{OK: true, Codes: codes})
}

// GetLeaderboard ranks every other currency by how far the given amount of the
// base currency stretches there. An unseeded base ranks with cost index 100.
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("base")))
	if base == "" {
		base = "USD"
	}

	amount := 1000.0
	if amountStr := r.URL.Query().Get("amount"); amountStr != "" {
		if parsed, err := strconv.ParseFloat(amountStr, 64); err == nil && parsed > 0 {
			amount = parsed
		}
	}

	top := 0
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if parsed, err := strconv.Atoi(topStr); err == nil {
			top = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.ColCurrencies).Find(ctx, bson.M{})
	if err != nil {
		log.Printf("currency leaderboard: find failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Leaderboard failed"})
		return
	}
	defer cursor.Close(ctx)

	var currencies []models.Currency
	if err := cursor.All(ctx, &currencies); err != nil {
		log.Printf("currency leaderboard: decode failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, bson.M{"ok": false, "message": "Leaderboard failed"})
		return
	}

	results := services.ComputeLeaderboard(currencies, base, amount, top)

	respondJSON(w, http.StatusOK, LeaderboardResponse{
		OK:      true,
		Base:    base,
		Amount:  amount,
		Results: results,
	})
}
