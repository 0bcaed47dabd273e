package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/handler"
	"github.com/vvitengg/admissions-backend/internal/middleware"
	"github.com/vvitengg/admissions-backend/internal/response"
	"github.com/vvitengg/admissions-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Admission *handler.AdmissionHandler
	Register  *handler.RegisterHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded documents and pre-rendered slips statically with
	// aggressive caching (1 year) — they are immutable once written.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the public intake (10 submissions per minute per IP).
	intakeLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Public Intake Group ────────────────────────────────────────
	public := router.Group("/api/v1/admissions")
	{
		public.POST("", intakeLimiter.Middleware(), handlers.Admission.Submit)
		public.GET("/:admission_id", handlers.Admission.Get)
		public.GET("/:admission_id/slip", handlers.Admission.Slip)
	}

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/admissions", handlers.Register.ListAdmissions)
		adminAPI.GET("/admissions/export.xlsx", handlers.Register.ExportXLSX)
		adminAPI.GET("/admissions/export.pdf", handlers.Register.ExportPDF)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(middleware.RequireAdminWSAuth(authService))
	{
		wsGroup.GET("/admin/admissions/feed", handlers.WS.AdmissionsFeed)
	}

	return router
}
