package services

import (
	"math"
	"testing"

	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeLeaderboardRanking(t *testing.T) {
	currencies := []models.Currency{
		{Country: "United States", CurrencyCode: "USD", CostIndex: 100},
		{Country: "Japan", CurrencyCode: "JPY", CostIndex: 90},
		{Country: "Switzerland", CurrencyCode: "CHF", CostIndex: 145},
		{Country: "India", CurrencyCode: "INR", CostIndex: 35},
	}

	results := ComputeLeaderboard(currencies, "USD", 1000, 20)

	if len(results) != 3 {
		t.Fatalf("expected 3 entries (base excluded), got %d", len(results))
	}

	for _, entry := range results {
		if entry.CurrencyCode == "USD" {
			t.Fatal("base currency must be excluded from the leaderboard")
		}
	}

	// Sorted descending by score: INR (100/35) > JPY (100/90) > CHF (100/145)
	for i := 1; i < len(results); i++ {
		if results[i].PurchasingPowerScore > results[i-1].PurchasingPowerScore {
			t.Errorf("results not sorted descending at index %d: %f > %f",
				i, results[i].PurchasingPowerScore, results[i-1].PurchasingPowerScore)
		}
	}

	if results[0].CurrencyCode != "INR" {
		t.Errorf("expected INR first, got %s", results[0].CurrencyCode)
	}

	// JPY at cost 90: score = 100/90, local amount = 1000 * 100/90
	var jpy *LeaderboardEntry
	for i := range results {
		if results[i].CurrencyCode == "JPY" {
			jpy = &results[i]
		}
	}
	if jpy == nil {
		t.Fatal("JPY missing from results")
	}
	if !almostEqual(jpy.PurchasingPowerScore, 100.0/90.0) {
		t.Errorf("JPY score: got %f, want %f", jpy.PurchasingPowerScore, 100.0/90.0)
	}
	if !almostEqual(jpy.LocalAmount, 1000*100.0/90.0) {
		t.Errorf("JPY local amount: got %f, want %f", jpy.LocalAmount, 1000*100.0/90.0)
	}

	// JPY (cost 90) must rank above CHF (cost 145)
	jpyIdx, chfIdx := -1, -1
	for i, entry := range results {
		switch entry.CurrencyCode {
		case "JPY":
			jpyIdx = i
		case "CHF":
			chfIdx = i
		}
	}
	if jpyIdx > chfIdx {
		t.Errorf("JPY (cost 90) ranked below CHF (cost 145)")
	}
}

func TestComputeLeaderboardUnseededBase(t *testing.T) {
	currencies := []models.Currency{
		{Country: "Japan", CurrencyCode: "JPY", CostIndex: 90},
		{Country: "Switzerland", CurrencyCode: "CHF", CostIndex: 145},
	}

	// XYZ is not seeded; it ranks with the default cost index of 100.
	results := ComputeLeaderboard(currencies, "XYZ", 500, 20)

	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	if results[0].CurrencyCode != "JPY" {
		t.Errorf("expected JPY first, got %s", results[0].CurrencyCode)
	}
	if !almostEqual(results[0].PurchasingPowerScore, 100.0/90.0) {
		t.Errorf("unseeded base score: got %f, want %f", results[0].PurchasingPowerScore, 100.0/90.0)
	}
}

func TestComputeLeaderboardTruncation(t *testing.T) {
	var currencies []models.Currency
	for i := 0; i < 150; i++ {
		currencies = append(currencies, models.Currency{
			Country:      "Country",
			CurrencyCode: string(rune('A'+i%26)) + string(rune('A'+(i/26)%26)) + string(rune('A'+i%10)),
			CostIndex:    float64(10 + i),
		})
	}

	tests := []struct {
		name string
		top  int
		want int
	}{
		{name: "explicit top", top: 5, want: 5},
		{name: "zero means default", top: 0, want: DefaultLeaderboardSize},
		{name: "negative means default", top: -3, want: DefaultLeaderboardSize},
		{name: "over the cap", top: 500, want: MaxLeaderboardSize},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			results := ComputeLeaderboard(currencies, "USD", 1000, test.top)
			if len(results) != test.want {
				t.Errorf("top=%d: got %d entries, want %d", test.top, len(results), test.want)
			}
		})
	}
}

func TestComputeLeaderboardZeroCostIndex(t *testing.T) {
	currencies := []models.Currency{
		{Country: "Nowhere", CurrencyCode: "NWH", CostIndex: 0},
		{Country: "United States", CurrencyCode: "USD", CostIndex: 100},
	}

	results := ComputeLeaderboard(currencies, "USD", 1000, 20)
	if len(results) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(results))
	}
	// Zero cost index falls back to the default; no division by zero.
	if !almostEqual(results[0].PurchasingPowerScore, 1.0) {
		t.Errorf("zero-cost fallback score: got %f, want 1", results[0].PurchasingPowerScore)
	}
}

func TestClampLeaderboardSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 1, want: 1},
		{in: 20, want: 20},
		{in: 100, want: 100},
		{in: 101, want: 100},
		{in: 0, want: DefaultLeaderboardSize},
		{in: -1, want: DefaultLeaderboardSize},
	}
	for _, test := range tests {
		if got := ClampLeaderboardSize(test.in); got != test.want {
			t.Errorf("ClampLeaderboardSize(%d): got %d, want %d", test.in, got, test.want)
		}
	}
}
