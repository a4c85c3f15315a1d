package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert types
const (
	AlertTypeFlight   = "flight"
	AlertTypeWeather  = "weather"
	AlertTypeCurrency = "currency"
)

// IsValidAlertType reports whether t is one of the known alert types.
func IsValidAlertType(t string) bool {
	switch t {
	case AlertTypeFlight, AlertTypeWeather, AlertTypeCurrency:
		return true
	}
	return false
}

// Alert is a typed travel event. Alerts are immutable once created.
type Alert struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Type    string `bson:"type" json:"type"`
	Title   string `bson:"title" json:"title"`
	Details string `bson:"details" json:"details"`

	Destination   string   `bson:"destination,omitempty" json:"destination,omitempty"`
	Country       string   `bson:"country,omitempty" json:"country,omitempty"`
	Airport       string   `bson:"airport,omitempty" json:"airport,omitempty"`
	FlightNumber  string   `bson:"flight_number,omitempty" json:"flight_number,omitempty"`
	CurrencyCode  string   `bson:"currency_code,omitempty" json:"currency_code,omitempty"`
	PercentChange *float64 `bson:"percent_change,omitempty" json:"percent_change,omitempty"`

	// 1 (informational) to 5 (critical)
	Severity int `bson:"severity" json:"severity"`
}

// AlertSubscription is a saved filter selecting which alerts matter to a user.
// A subscription with no destination/country/currency filter matches purely on
// the severity threshold.
type AlertSubscription struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Email        string `bson:"email" json:"email"` // stored lowercased
	Destination  string `bson:"destination,omitempty" json:"destination,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
	CurrencyCode string `bson:"currency_code,omitempty" json:"currency_code,omitempty"`
	MinSeverity  int    `bson:"min_severity" json:"min_severity"`
}
