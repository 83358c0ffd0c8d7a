package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/config"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/handler"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/middleware"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/response"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.SessionHandler
	Question *handler.QuestionHandler
	History  *handler.HistoryHandler
	WS       *handler.WSHandler
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.CandidateRegister)
		auth.POST("/login", handlers.Auth.CandidateLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Candidate Group (JWT + Single Login) ───────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(middleware.RequireCandidateJWT(authService))
	{
		candidateAPI.GET("/me", handlers.Auth.GetCandidateProfile)
		candidateAPI.POST("/logout", handlers.Auth.CandidateLogout)

		candidateAPI.GET("/subjects/:subject/chapters", handlers.Question.ListChapters)

		candidateAPI.POST("/sessions", handlers.Session.StartSession)
		candidateAPI.GET("/sessions/active", handlers.Session.GetActiveSession)
		candidateAPI.GET("/sessions/:session_id", handlers.Session.GetSessionState)
		candidateAPI.GET("/sessions/:session_id/paper", handlers.Session.GetSessionPaper)
		candidateAPI.POST("/sessions/:session_id/actions", handlers.Session.ApplyAction)
		candidateAPI.POST("/sessions/:session_id/submit", handlers.Session.SubmitSession)
		candidateAPI.GET("/sessions/:session_id/result", handlers.Session.GetResult)

		candidateAPI.GET("/history", handlers.History.ListHistory)
		candidateAPI.DELETE("/history", handlers.History.ClearHistory)
	}

	// ─── 3. WebSocket Group (Candidate WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateWSAuth(authService))
	{
		ws.GET("/candidate/sessions/:session_id/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/questions", handlers.Question.AddQuestion)
		adminAPI.GET("/questions", handlers.Question.ListQuestions)
		adminAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)

		adminAPI.DELETE("/history", handlers.History.ClearAllHistory)
	}

	return router
}
