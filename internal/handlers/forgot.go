package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
	"github.com/wayfarer-travel/wayfarer-backend/internal/services"
	"github.com/wayfarer-travel/wayfarer-backend/pkg/utils"
)

// genericResetMessage is returned whether or not the account exists, so the
// forgot-password flow cannot be used to enumerate emails.
const genericResetMessage = "If this email exists, a code has been sent."

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type ForgotResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendResetCode generates a 6-digit recovery code with a 10-minute TTL.
// Email delivery is handled out of band; the code is logged server-side.
func SendResetCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	email := normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondJSON(w, http.StatusOK, ForgotResponse{Success: true, Message: genericResetMessage})
		return
	}
	if err != nil {
		log.Printf("send-code: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error sending code")
		return
	}

	code, err := services.GenerateResetCode()
	if err != nil {
		log.Printf("send-code: code generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error sending code")
		return
	}

	if err := services.StoreResetCode(ctx, email, code); err != nil {
		log.Printf("send-code: store failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error sending code")
		return
	}

	log.Printf("password reset code issued for %s", email)

	respondJSON(w, http.StatusOK, ForgotResponse{Success: true, Message: genericResetMessage})
}

// VerifyCodeReset checks the pending code and sets the new password.
func VerifyCodeReset(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "Email, code, and new password are required")
		return
	}

	email := normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	code, ok, err := services.LookupResetCode(ctx, email)
	if err != nil {
		log.Printf("verify-code-reset: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error resetting password")
		return
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "No code requested or code expired. Request a new one.")
		return
	}
	if code != req.Code {
		respondError(w, http.StatusBadRequest, "Invalid code")
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error resetting password")
		return
	}

	result, err := database.DB.Collection(database.ColUsers).UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": hashedPassword}},
	)
	if err != nil {
		log.Printf("verify-code-reset: update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error resetting password")
		return
	}

	if err := services.DeleteResetCode(ctx, email); err != nil {
		log.Printf("verify-code-reset: code cleanup failed: %v", err)
	}

	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, ForgotResponse{Success: true, Message: "Password updated successfully"})
}
