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

type AdminUpdateUserRequest struct {
	UserID   string  `json:"user_id"` // the admin making the change
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	IsAdmin  *bool   `json:"is_admin"`
	IsBanned *bool   `json:"is_banned"`
}

type AdminUserListResponse struct {
	Success bool          `json:"success"`
	Users   []models.User `json:"users"`
}

// AdminListUsers returns every account, including role flags. Admin only.
func AdminListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, errResp := requireCaller(ctx, w, r.URL.Query().Get("userId"))
	if errResp {
		return
	}
	if !caller.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})

	cursor, err := database.DB.Collection(database.ColUsers).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Printf("admin list users: find failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("admin list users: decode failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	respondJSON(w, http.StatusOK, AdminUserListResponse{Success: true, Users: users})
}

// AdminUpdateUser edits another account's profile and role flags, including
// ban and unban. Admin only.
func AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminUpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caller, errResp := requireCaller(ctx, w, req.UserID)
	if errResp {
		return
	}
	if !caller.IsAdmin {
		respondError(w, http.StatusForbidden, "Admin access required")
		return
	}

	target, err := findUserByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("admin update user: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	set := bson.M{}
	if req.Name != nil && *req.Name != "" {
		set["name"] = *req.Name
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.IsAdmin != nil {
		set["is_admin"] = *req.IsAdmin
	}
	if req.IsBanned != nil {
		set["is_banned"] = *req.IsBanned
	}
	if len(set) == 0 {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	var updated models.User
	after := options.After
	err = database.DB.Collection(database.ColUsers).FindOneAndUpdate(
		ctx,
		bson.M{"_id": target.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		log.Printf("admin update user: update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{Success: true, User: &updated})
}
