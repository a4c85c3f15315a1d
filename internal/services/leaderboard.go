package services

import (
	"sort"

	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

const (
	// DefaultLeaderboardSize is returned when the client does not ask for a size.
	DefaultLeaderboardSize = 20
	// MaxLeaderboardSize is the hard cap on requested sizes.
	MaxLeaderboardSize = 100
	// DefaultCostIndex stands in for currencies (including an unseeded base)
	// without a cost index.
	DefaultCostIndex = 100
)

// LeaderboardEntry is one ranked row of the purchasing-power leaderboard.
type LeaderboardEntry struct {
	Country              string  `json:"country"`
	CurrencyCode         string  `json:"currency_code"`
	CostIndex            float64 `json:"cost_index"`
	PurchasingPowerScore float64 `json:"purchasing_power_score"`
	LocalAmount          float64 `json:"local_amount"`
}

// ClampLeaderboardSize normalizes a requested result count to [1, MaxLeaderboardSize],
// substituting the default when the request is zero or negative.
func ClampLeaderboardSize(top int) int {
	if top <= 0 {
		return DefaultLeaderboardSize
	}
	if top > MaxLeaderboardSize {
		return MaxLeaderboardSize
	}
	return top
}

// ComputeLeaderboard ranks every currency other than the base by purchasing
// power: score = baseCost / localCost, where a missing or non-positive cost
// index counts as DefaultCostIndex. The base currency itself is excluded.
// Results are sorted by score descending and truncated to top entries.
func ComputeLeaderboard(currencies []models.Currency, baseCode string, amount float64, top int) []LeaderboardEntry {
	baseCost := float64(DefaultCostIndex)
	for _, c := range currencies {
		if c.CurrencyCode == baseCode {
			if c.CostIndex > 0 {
				baseCost = c.CostIndex
			}
			break
		}
	}

	entries := make([]LeaderboardEntry, 0, len(currencies))
	for _, c := range currencies {
		if c.CurrencyCode == baseCode {
			continue
		}
		localCost := c.CostIndex
		if localCost <= 0 {
			localCost = DefaultCostIndex
		}
		score := baseCost / localCost
		entries = append(entries, LeaderboardEntry{
			Country:              c.Country,
			CurrencyCode:         c.CurrencyCode,
			CostIndex:            localCost,
			PurchasingPowerScore: score,
			LocalAmount:          amount * score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PurchasingPowerScore > entries[j].PurchasingPowerScore
	})

	top = ClampLeaderboardSize(top)
	if len(entries) > top {
		entries = entries[:top]
	}
	return entries
}
