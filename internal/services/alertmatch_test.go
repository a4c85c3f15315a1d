package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

func TestBuildSubscriptionFilterNoSubscriptions(t *testing.T) {
	if got := BuildSubscriptionFilter(nil); got != nil {
		t.Errorf("expected nil filter for no subscriptions, got %v", got)
	}
	if got := BuildSubscriptionFilter([]models.AlertSubscription{}); got != nil {
		t.Errorf("expected nil filter for empty subscriptions, got %v", got)
	}
}

func TestBuildSubscriptionFilterSingleGlobal(t *testing.T) {
	// A subscription with no destination/country/currency acts as a
	// severity-only global subscription.
	subs := []models.AlertSubscription{
		{Email: "a@x.com", MinSeverity: 3},
	}

	filter := BuildSubscriptionFilter(subs)
	if filter == nil {
		t.Fatal("expected a filter")
	}
	if _, hasOr := filter["$or"]; hasOr {
		t.Errorf("single subscription should not produce an $or union: %v", filter)
	}

	severity, ok := filter["severity"].(bson.M)
	if !ok {
		t.Fatalf("expected severity clause, got %v", filter)
	}
	if severity["$gte"] != 3 {
		t.Errorf("severity floor: got %v, want 3", severity["$gte"])
	}

	for _, key := range []string{"destination", "country", "currency_code"} {
		if _, present := filter[key]; present {
			t.Errorf("global subscription must not constrain %s", key)
		}
	}
}

func TestBuildSubscriptionFilterClauses(t *testing.T) {
	subs := []models.AlertSubscription{
		{Email: "a@x.com", Destination: "Tokyo", MinSeverity: 2},
		{Email: "a@x.com", Country: "Japan", MinSeverity: 1},
		{Email: "a@x.com", CurrencyCode: "JPY", MinSeverity: 4},
	}

	filter := BuildSubscriptionFilter(subs)
	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or union, got %v", filter)
	}
	if len(or) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(or))
	}

	dest, ok := or[0]["destination"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected destination regex, got %v", or[0]["destination"])
	}
	if dest.Pattern != "Tokyo" || dest.Options != "i" {
		t.Errorf("destination regex: got %q/%q, want Tokyo/i", dest.Pattern, dest.Options)
	}

	country, ok := or[1]["country"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected country regex, got %v", or[1]["country"])
	}
	if country.Pattern != "Japan" || country.Options != "i" {
		t.Errorf("country regex: got %q/%q, want Japan/i", country.Pattern, country.Options)
	}

	if or[2]["currency_code"] != "JPY" {
		t.Errorf("currency code must match exactly: got %v", or[2]["currency_code"])
	}

	// Every clause carries its own severity floor.
	wantFloors := []int{2, 1, 4}
	for i, clause := range or {
		severity, ok := clause["severity"].(bson.M)
		if !ok {
			t.Fatalf("clause %d: missing severity floor", i)
		}
		if severity["$gte"] != wantFloors[i] {
			t.Errorf("clause %d severity floor: got %v, want %d", i, severity["$gte"], wantFloors[i])
		}
	}
}

func TestBuildSubscriptionFilterSeverityFloor(t *testing.T) {
	// A zero or negative threshold is raised to 1.
	subs := []models.AlertSubscription{
		{Email: "a@x.com", MinSeverity: 0},
	}

	filter := BuildSubscriptionFilter(subs)
	severity := filter["severity"].(bson.M)
	if severity["$gte"] != 1 {
		t.Errorf("severity floor: got %v, want 1", severity["$gte"])
	}
}

func TestBuildSubscriptionFilterEscapesRegex(t *testing.T) {
	subs := []models.AlertSubscription{
		{Email: "a@x.com", Destination: "St. John's (NL)", MinSeverity: 1},
	}

	filter := BuildSubscriptionFilter(subs)
	dest := filter["destination"].(primitive.Regex)
	if dest.Pattern == "St. John's (NL)" {
		t.Error("regex metacharacters in the destination must be escaped")
	}
}
