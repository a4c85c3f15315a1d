package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"github.com/wayfarer-travel/wayfarer-backend/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
	IsBanned bool   `json:"is_banned"`
}

// Register handles user registration
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	email := normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check for an existing account first so the client gets a clear message;
	// the unique index on email is the real guard against a racing duplicate.
	var existing models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		respondError(w, http.StatusBadRequest, "Email taken")
		return
	}
	if err != mongo.ErrNoDocuments {
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: time.Now(),
		Name:      req.Name,
		Email:     email,
		Password:  hashedPassword,
		Bio:       "No bio available.",
	}

	if _, err := database.DB.Collection(database.ColUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Email taken")
			return
		}
		log.Printf("register: insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		Success: true,
		Message: "Registered",
		UserID:  user.ID.Hex(),
	})
}

// Login handles user sign-in. Credential failures stay generic; a banned
// account with correct credentials gets 403 and no session.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"email": normalizeEmail(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("login: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !valid {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user.IsBanned {
		respondError(w, http.StatusForbidden, "Your account has been suspended")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Success:  true,
		Message:  "Success",
		UserID:   user.ID.Hex(),
		Name:     user.Name,
		IsAdmin:  user.IsAdmin,
		IsBanned: user.IsBanned,
	})
}
