package services

import (
	"regexp"

	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertMatchLimit caps how many alerts a subscription lookup returns.
const AlertMatchLimit = 100

// subscriptionClause translates one subscription into a Mongo filter clause:
// (destination substring OR-free, country substring, exact currency code — all
// ANDed together when present) AND severity >= min. A subscription with no
// destination/country/currency acts as a severity-only global subscription.
func subscriptionClause(sub models.AlertSubscription) bson.M {
	minSeverity := sub.MinSeverity
	if minSeverity < 1 {
		minSeverity = 1
	}

	clause := bson.M{"severity": bson.M{"$gte": minSeverity}}
	if sub.Destination != "" {
		clause["destination"] = primitive.Regex{Pattern: regexp.QuoteMeta(sub.Destination), Options: "i"}
	}
	if sub.Country != "" {
		clause["country"] = primitive.Regex{Pattern: regexp.QuoteMeta(sub.Country), Options: "i"}
	}
	if sub.CurrencyCode != "" {
		clause["currency_code"] = sub.CurrencyCode
	}
	return clause
}

// BuildSubscriptionFilter unions the clauses of all of a user's subscriptions
// into a single alert query. Returns nil when there are no subscriptions; the
// caller must treat nil as "no matches" rather than "match everything".
func BuildSubscriptionFilter(subs []models.AlertSubscription) bson.M {
	if len(subs) == 0 {
		return nil
	}
	clauses := make([]bson.M, 0, len(subs))
	for _, sub := range subs {
		clauses = append(clauses, subscriptionClause(sub))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$or": clauses}
}
