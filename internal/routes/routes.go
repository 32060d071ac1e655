package routes

import (
	"net/http"

	"github.com/bachecalabs/bacheca/internal/app"
	"github.com/bachecalabs/bacheca/internal/handler"
	"github.com/bachecalabs/bacheca/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	ad := handler.NewAdHandler(app.AdService)
	upload := handler.NewUploadHandler(app.MediaService)
	moderation := handler.NewModerationHandler(app.ModerationService, app.VerificationService)
	verification := handler.NewVerificationHandler(app.VerificationService)
	content := handler.NewContentHandler(app.ContentService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/cities", ad.Cities)
	mux.HandleFunc("GET /api/ads", ad.List)
	mux.HandleFunc("GET /api/ads/{id}", ad.Detail)
	mux.HandleFunc("POST /api/ads/{id}/contact-click", ad.ContactClick)

	// Content
	mux.HandleFunc("GET /api/content/legal/{page}", content.LegalPage)
	mux.HandleFunc("GET /api/content/announcements", content.Announcements)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// AUTHENTICATED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("PATCH /api/me/name", middleware.RequireAuth(auth.UpdateName))
	mux.HandleFunc("POST /api/me/password", middleware.RequireAuth(auth.UpdatePassword))
	mux.HandleFunc("DELETE /api/me", middleware.RequireAuth(auth.DeleteAccount))

	// Ads
	mux.HandleFunc("POST /api/ads", middleware.RequireAuth(ad.Create))
	mux.HandleFunc("PUT /api/ads/{id}", middleware.RequireAuth(ad.Update))
	mux.HandleFunc("DELETE /api/ads/{id}", middleware.RequireAuth(ad.Delete))
	mux.HandleFunc("GET /api/my/ads", middleware.RequireAuth(ad.MyAds))

	// Uploads
	mux.HandleFunc("POST /api/uploads", middleware.RequireAuth(upload.Upload))

	// Verification
	mux.HandleFunc("POST /api/verification", middleware.RequireAuth(verification.Submit))
	mux.HandleFunc("GET /api/verification", middleware.RequireAuth(verification.Status))

	// ============================================================================
	// MODERATION ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/moderation/ads", middleware.RequireModerator(moderation.ListAds))
	mux.HandleFunc("GET /api/moderation/ads/stats", middleware.RequireModerator(moderation.AdStats))
	mux.HandleFunc("GET /api/moderation/ads/{id}", middleware.RequireModerator(moderation.AdDetail))
	mux.HandleFunc("POST /api/moderation/ads/{id}/approve", middleware.RequireModerator(moderation.ApproveAd))
	mux.HandleFunc("POST /api/moderation/ads/{id}/reject", middleware.RequireModerator(moderation.RejectAd))
	mux.HandleFunc("POST /api/moderation/ads/{id}/status", middleware.RequireModerator(moderation.ChangeAdStatus))
	mux.HandleFunc("DELETE /api/moderation/ads/{id}", middleware.RequireModerator(moderation.DeleteAd))
	mux.HandleFunc("POST /api/moderation/ads/bulk-approve", middleware.RequireModerator(moderation.BulkApproveAds))
	mux.HandleFunc("POST /api/moderation/ads/bulk-reject", middleware.RequireModerator(moderation.BulkRejectAds))

	mux.HandleFunc("GET /api/moderation/verification", middleware.RequireModerator(moderation.ListVerifications))
	mux.HandleFunc("GET /api/moderation/verification/stats", middleware.RequireModerator(moderation.VerificationStats))
	mux.HandleFunc("GET /api/moderation/verification/{id}", middleware.RequireModerator(moderation.VerificationDetail))
	mux.HandleFunc("POST /api/moderation/verification/{id}/approve", middleware.RequireModerator(moderation.ApproveVerification))
	mux.HandleFunc("POST /api/moderation/verification/{id}/reject", middleware.RequireModerator(moderation.RejectVerification))
	mux.HandleFunc("POST /api/moderation/verification/bulk-approve", middleware.RequireModerator(moderation.BulkApproveVerifications))
	mux.HandleFunc("POST /api/moderation/verification/bulk-reject", middleware.RequireModerator(moderation.BulkRejectVerifications))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return h
}
