package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"` // unique, stored lowercased and trimmed

	// Argon2id hash. Never serialized to clients.
	Password string `bson:"password" json:"-"`

	Bio            string `bson:"bio" json:"bio"`
	ProfilePicture string `bson:"profile_picture" json:"profile_picture"`

	IsAdmin  bool `bson:"is_admin" json:"is_admin"`
	IsBanned bool `bson:"is_banned" json:"is_banned"`
}

// Role returns the role string snapshotted onto messages sent by this user.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
