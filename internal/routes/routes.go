package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/handlers"
	"github.com/webfinancas/api/internal/middleware"
)

// RegisterRoutes registers all application routes under /api.
func RegisterRoutes(
	router chi.Router,
	userHandler *handlers.UserHandler,
	transactionHandler *handlers.TransactionHandler,
	feedbackHandler *handlers.FeedbackHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
	users auth.UserFetcher,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	router.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimitConfig))
			r.Post("/users/register", userHandler.Register)
			r.Post("/users/login", userHandler.Login)
			r.Post("/users/forgot-password", userHandler.ForgotPassword)
			r.Post("/users/reset-password", userHandler.ResetPassword)
		})

		// Protected routes - authentication required
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokenManager))

			r.Get("/users/profile", userHandler.GetProfile)
			r.Put("/users/profile", userHandler.UpdateProfile)
			r.Delete("/users/profile", userHandler.DeleteAccount)
			r.Put("/users/change-password", userHandler.ChangePassword)

			r.Post("/transactions", transactionHandler.Create)
			r.Get("/transactions", transactionHandler.List)
			r.Put("/transactions/{id}", transactionHandler.Update)
			r.Delete("/transactions/{id}", transactionHandler.Delete)
			r.Get("/transactions/summary", transactionHandler.Summary)
			r.Get("/transactions/summary_by_period", transactionHandler.SummaryByPeriod)
			r.Get("/transactions/spending_by_category", transactionHandler.SpendingByCategory)
			r.Get("/transactions/spending_by_category_alltime", transactionHandler.SpendingByCategory)

			r.Get("/feedbacks", feedbackHandler.List)
			r.Post("/feedbacks", feedbackHandler.Create)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(users))
				r.Put("/feedbacks/{id}/status", feedbackHandler.SetStatus)
				r.Get("/admin/users", adminHandler.ListUsers)
				r.Put("/admin/users/{id}/admin-status", adminHandler.SetAdminStatus)
				r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
			})
		})
	})
}
