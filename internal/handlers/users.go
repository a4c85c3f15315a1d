package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

type ProfileResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type DirectoryEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}

type DirectoryResponse struct {
	Success bool             `json:"success"`
	Users   []DirectoryEntry `json:"users"`
}

// GetUser returns a single profile. The password hash never serializes.
func GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := findUserByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get user: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{Success: true, User: user})
}

// UpdateUser updates a user's own profile fields. Only name, bio and profile
// picture are settable here; role flags are admin territory.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{}
	if req.Name != nil && *req.Name != "" {
		set["name"] = *req.Name
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.ProfilePicture != nil {
		set["profile_picture"] = *req.ProfilePicture
	}
	if len(set) == 0 {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := findUserByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("update user: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	var updated models.User
	after := options.After
	err = database.DB.Collection(database.ColUsers).FindOneAndUpdate(
		ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		log.Printf("update user: update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{Success: true, User: &updated})
}

// GetAllUsers returns the public member directory.
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetProjection(bson.M{"name": 1, "bio": 1, "profile_picture": 1})

	cursor, err := database.DB.Collection(database.ColUsers).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Printf("all users: find failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("all users: decode failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	entries := make([]DirectoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, DirectoryEntry{
			ID:             u.ID.Hex(),
			Name:           u.Name,
			Bio:            u.Bio,
			ProfilePicture: u.ProfilePicture,
		})
	}

	respondJSON(w, http.StatusOK, DirectoryResponse{Success: true, Users: entries})
}
