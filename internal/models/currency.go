package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Currency struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Country      string             `bson:"country" json:"country"`
	CurrencyCode string             `bson:"currency_code" json:"currency_code"` // unique, uppercase
	CostIndex    float64            `bson:"cost_index" json:"cost_index"`

	// Units of this currency per USD. Stored when known; the leaderboard
	// ranks on cost index alone.
	ExchangeRate *float64 `bson:"exchange_rate,omitempty" json:"exchange_rate,omitempty"`
}
