package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Destination struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Country       string             `bson:"country" json:"country"`
	Continent     string             `bson:"continent" json:"continent"`
	EstimatedCost float64            `bson:"estimated_cost" json:"estimated_cost"`

	// 1 (avoid) to 10 (very safe)
	SafetyScore int      `bson:"safety_score" json:"safety_score"`
	Tags        []string `bson:"tags" json:"tags"`
}
