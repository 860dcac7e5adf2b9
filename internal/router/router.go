package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepwise/quizmaster-backend/internal/config"
	"github.com/prepwise/quizmaster-backend/internal/handler"
	"github.com/prepwise/quizmaster-backend/internal/middleware"
	"github.com/prepwise/quizmaster-backend/internal/response"
	"github.com/prepwise/quizmaster-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Subject  *handler.SubjectHandler
	Chapter  *handler.ChapterHandler
	Quiz     *handler.QuizHandler
	Question *handler.QuestionHandler
	Attempt  *handler.AttemptHandler
	Score    *handler.ScoreHandler
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

	// Every response carries request metadata for tracing.
	router.Use(response.RequestIDMiddleware())

	// Large payloads (quiz questions, score history) compress well.
	router.Use(middleware.Compress())

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
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile route
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Catalog Group (Any Authenticated Caller) ───────────────────
	catalog := router.Group("/api/v1")
	catalog.Use(middleware.RequireUserJWT(authService))
	{
		catalog.GET("/subjects", handlers.Subject.GetAll)
		catalog.GET("/chapters", handlers.Chapter.List)
	}

	// ─── 3. User Group (JWT) ───────────────────────────────────────────
	userAPI := router.Group("/api/v1/user")
	userAPI.Use(middleware.RequireUserJWT(authService))
	{
		userAPI.GET("/quizzes", handlers.Quiz.List)

		// Timed attempt workflow
		userAPI.GET("/attempt_quiz/:quiz_id", handlers.Attempt.AttemptQuiz)
		userAPI.DELETE("/attempt_quiz/:quiz_id", handlers.Attempt.CancelAttempt)
		userAPI.GET("/attempt_state/:quiz_id", handlers.Attempt.GetState)
		userAPI.POST("/submit_quiz/:quiz_id", handlers.Attempt.SubmitQuiz)
		userAPI.GET("/view_answers/:quiz_id", handlers.Attempt.ViewAnswers)

		// History and rankings
		userAPI.GET("/scores", handlers.Score.History)
		userAPI.GET("/stats", handlers.Score.UserStats)
		userAPI.GET("/quizzes/:quiz_id/leaderboard", handlers.Score.QuizLeaderboard)
		userAPI.GET("/leaderboard", handlers.Score.GlobalLeaderboard)
	}

	// ─── 4. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/user/quizzes/:quiz_id/stream", handlers.WS.AttemptStream)
	}

	// ─── 5. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Subject management
		adminAPI.GET("/subjects", handlers.Subject.GetAll)
		adminAPI.POST("/subjects", handlers.Subject.Create)
		adminAPI.PUT("/subjects/:id", handlers.Subject.Update)
		adminAPI.DELETE("/subjects/:id", handlers.Subject.Delete)

		// Chapter management
		adminAPI.GET("/chapters", handlers.Chapter.List)
		adminAPI.POST("/chapters", handlers.Chapter.Create)
		adminAPI.PUT("/chapters/:id", handlers.Chapter.Update)
		adminAPI.DELETE("/chapters/:id", handlers.Chapter.Delete)

		// Quiz management
		adminAPI.GET("/quizzes/:id", handlers.Quiz.Get)
		adminAPI.POST("/quizzes", handlers.Quiz.Create)
		adminAPI.PUT("/quizzes/:id", handlers.Quiz.Update)
		adminAPI.DELETE("/quizzes/:id", handlers.Quiz.Delete)

		// Question authoring
		adminAPI.GET("/quizzes/:id/questions", handlers.Question.List)
		adminAPI.POST("/quizzes/:id/questions", handlers.Question.Create)
		adminAPI.PUT("/quizzes/:id/questions/:question_id", handlers.Question.Update)
		adminAPI.DELETE("/quizzes/:id/questions/:question_id", handlers.Question.Delete)

		// Quiz stats
		adminAPI.GET("/quizzes/:id/stats", handlers.Score.QuizStats)
	}

	return router
}
