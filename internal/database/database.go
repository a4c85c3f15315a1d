package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

// Collection names, one per entity.
const (
	ColUsers         = "users"
	ColDestinations  = "destinations"
	ColCurrencies    = "currencies"
	ColAlerts        = "alerts"
	ColSubscriptions = "alert_subscriptions"
	ColTickets       = "tickets"
	ColMessages      = "messages"
)

func Connect(mongoURI string) error {
	// Longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	Client = client
	DB = client.Database(databaseName(mongoURI))

	log.Println("✅ Connected to MongoDB")
	return nil
}

// databaseName extracts the database name from the connection string,
// falling back to "wayfarer".
func databaseName(mongoURI string) string {
	name := "wayfarer"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			name = dbPart
		}
	}
	return name
}

func Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup; creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		ColUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("idx_email_unique").SetUnique(true),
			},
		},
		ColCurrencies: {
			{
				Keys:    bson.D{{Key: "currency_code", Value: 1}},
				Options: options.Index().SetName("idx_currency_code_unique").SetUnique(true),
			},
		},
		ColMessages: {
			// Conversation replay: oldest-first within a ticket.
			{
				Keys: bson.D{
					{Key: "ticket_id", Value: 1},
					{Key: "created_at", Value: 1},
				},
				Options: options.Index().SetName("idx_ticket_created"),
			},
		},
		ColAlerts: {
			// Subscription matches sort by severity desc then recency desc.
			{
				Keys: bson.D{
					{Key: "severity", Value: -1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("idx_severity_created"),
			},
		},
		ColSubscriptions: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("idx_subscription_email"),
			},
		},
	}

	for col, ms := range indexes {
		for _, m := range ms {
			if _, err := DB.Collection(col).Indexes().CreateOne(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}
