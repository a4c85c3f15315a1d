package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Accounts and auth
	r.Post("/api/register", handlers.Register)
	r.Post("/api/login", handlers.Login)
	r.Get("/api/users/{id}", handlers.GetUser)
	r.Put("/api/users/{id}", handlers.UpdateUser)
	r.Get("/api/all-users", handlers.GetAllUsers)

	// Password recovery
	r.Post("/api/forgot/send-code", handlers.SendResetCode)
	r.Post("/api/forgot/verify-code-reset", handlers.VerifyCodeReset)

	// Admin
	r.Get("/api/admin/users", handlers.AdminListUsers)
	r.Put("/api/admin/users/{id}", handlers.AdminUpdateUser)

	// Destination catalog
	r.Post("/api/destinations/seed", handlers.SeedDestinations)
	r.Get("/api/destinations/search", handlers.SearchDestinations)

	// Currency purchasing-power leaderboard
	r.Post("/api/currency/seed", handlers.SeedCurrencies)
	r.Get("/api/currency/codes", handlers.GetCurrencyCodes)
	r.Get("/api/currency/leaderboard", handlers.GetLeaderboard)

	// Travel alerts and subscriptions
	r.Post("/api/alerts", handlers.CreateAlert)
	r.Get("/api/alerts", handlers.ListAlerts)
	r.Post("/api/alerts/subscribe", handlers.Subscribe)
	r.Get("/api/alerts/forUser", handlers.AlertsForUser)

	// Support tickets and conversation threads
	r.Post("/api/tickets", handlers.CreateTicket)
	r.Get("/api/tickets", handlers.ListTickets)
	r.Get("/api/tickets/{id}/details", handlers.GetTicketDetails)
	r.Patch("/api/tickets/{id}", handlers.UpdateTicketStatus)
	r.Delete("/api/tickets/{id}", handlers.DeleteTicket)
	r.Get("/api/tickets/{id}/messages", handlers.ListMessages)
	r.Post("/api/tickets/{id}/messages", handlers.PostMessage)

	// File uploads (profile pictures, ticket attachments)
	r.Post("/api/upload", handlers.UploadFile)

	// WebSocket endpoint for the live alert stream
	r.Get("/ws/alerts", handlers.AlertStream)
}
