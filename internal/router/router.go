package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/handler"
	"github.com/examtrack/examtrack-backend/internal/middleware"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sync     *handler.SyncHandler
	Attempt  *handler.AttemptHandler
	Exam     *handler.ExamHandler
	Taxonomy *handler.TaxonomyHandler
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

	// Apply request ID middleware globally so every response can be traced.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally. Bootstrap sync payloads are the
	// main beneficiary.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/device/register", handlers.Auth.RegisterDevice)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Sync Group (Device JWT) ────────────────────────────────────
	syncAPI := router.Group("/api/v1/sync")
	syncAPI.Use(middleware.RequireDeviceJWT(authService))
	{
		syncAPI.GET("/changes", handlers.Sync.GetChanges)
		syncAPI.POST("/attempts", handlers.Attempt.SubmitAttempt)
	}

	// ─── 3. WebSocket Group (Device WS Auth) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireDeviceWSAuth(authService))
	{
		ws.GET("/sync/notify", handlers.WS.SyncNotifyStream)
	}

	// ─── 4. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Taxonomy
		adminAPI.GET("/subjects", handlers.Taxonomy.ListSubjects)
		adminAPI.POST("/subjects", handlers.Taxonomy.CreateSubject)
		adminAPI.PUT("/subjects/:subjectId", handlers.Taxonomy.RenameSubject)
		adminAPI.DELETE("/subjects/:subjectId", handlers.Taxonomy.DeleteSubject)
		adminAPI.GET("/subjects/:subjectId/lessons", handlers.Taxonomy.ListLessons)

		adminAPI.POST("/lessons", handlers.Taxonomy.CreateLesson)
		adminAPI.PUT("/lessons/:lessonId", handlers.Taxonomy.RenameLesson)
		adminAPI.DELETE("/lessons/:lessonId", handlers.Taxonomy.DeleteLesson)
		adminAPI.GET("/lessons/:lessonId/topics", handlers.Taxonomy.ListTopics)

		adminAPI.POST("/topics", handlers.Taxonomy.CreateTopic)
		adminAPI.PUT("/topics/:topicId", handlers.Taxonomy.RenameTopic)
		adminAPI.DELETE("/topics/:topicId", handlers.Taxonomy.DeleteTopic)

		// Exams
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.POST("/exams/custom", handlers.Exam.CreateCustomExam)
		adminAPI.GET("/exams/:examId", handlers.Exam.GetExam)
		adminAPI.PUT("/exams/:examId", handlers.Exam.UpdateExam)
		adminAPI.DELETE("/exams/:examId", handlers.Exam.DeleteExam)

		// Questions
		adminAPI.GET("/exams/:examId/questions", handlers.Exam.ListQuestions)
		adminAPI.POST("/exams/:examId/questions", handlers.Exam.AddQuestion)
		adminAPI.PUT("/questions/:questionId", handlers.Exam.UpdateQuestion)
		adminAPI.DELETE("/questions/:questionId", handlers.Exam.DeleteQuestion)
	}

	return router
}
