package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/handler"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/middleware"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Course   *handler.CourseHandler
	Lecture  *handler.LectureHandler
	Material *handler.MaterialHandler
	Quiz     *handler.QuizHandler
	Question *handler.QuestionHandler
	Attempt  *handler.AttemptHandler
	Rating   *handler.RatingHandler
	Progress *handler.ProgressHandler
	Chat     *handler.ChatHandler
	Stats    *handler.StatsHandler
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded material files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

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
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.POST("/change-password", middleware.RequireAuth(authService), handlers.Auth.ChangePassword)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Shared Group (Any Authenticated Role) ──────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		api.GET("/sections/:section_id", handlers.Course.GetSection)
		api.GET("/sections/:section_id/materials", handlers.Material.ListMaterials)
		api.GET("/materials/:material_id", handlers.Material.GetMaterial)
		api.GET("/lectures/:lecture_id", handlers.Lecture.GetLecture)
		api.GET("/chapters/:chapter_id/lectures", handlers.Lecture.ListLectures)
		api.GET("/subjects/:subject_id/chapters", handlers.Course.ListChapters)

		// Ratings: summaries and listings are open to every role.
		api.GET("/ratings/:target/:target_id", handlers.Rating.ListRatings)
		api.GET("/ratings/:target/:target_id/summary", handlers.Rating.GetSummary)

		// Section chat over REST.
		api.GET("/sections/:section_id/chat", handlers.Chat.History)
		api.POST("/sections/:section_id/chat", handlers.Chat.SendMessage)
	}

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireAuth(authService), middleware.RequireStudent())
	{
		studentAPI.GET("/dashboard", handlers.Stats.StudentDashboard)
		studentAPI.GET("/sections", handlers.Course.ListMySections)
		studentAPI.GET("/quizzes", handlers.Quiz.ListAvailableQuizzes)
		studentAPI.GET("/attempts", handlers.Attempt.ListMyAttempts)
	}

	// Attempt flow and progress reporting are student-only but live
	// outside the /student prefix because they address resources by ID.
	studentOps := router.Group("/api/v1")
	studentOps.Use(middleware.RequireAuth(authService), middleware.RequireStudent())
	{
		studentOps.GET("/quizzes/:quiz_id/start", handlers.Attempt.QuizStartView)
		studentOps.POST("/attempts", handlers.Attempt.StartAttempt)
		studentOps.PUT("/attempts/:attempt_id/answers", handlers.Attempt.SubmitAnswer)
		studentOps.POST("/attempts/:attempt_id/flag", handlers.Attempt.FlagQuestion)
		studentOps.POST("/attempts/:attempt_id/submit", handlers.Attempt.SubmitAttempt)
		studentOps.GET("/attempts/:attempt_id/progress", handlers.Attempt.AttemptProgress)
		studentOps.GET("/attempts/:attempt_id/result", handlers.Attempt.AttemptResult)

		studentOps.PUT("/lectures/:lecture_id/progress", handlers.Progress.ReportProgress)
		studentOps.GET("/lectures/:lecture_id/progress", handlers.Progress.GetLectureProgress)
		studentOps.GET("/sections/:section_id/progress/me", handlers.Progress.GetSectionProgress)

		studentOps.PUT("/ratings/:target/:target_id", handlers.Rating.Rate)
		studentOps.DELETE("/ratings/:target/:target_id", handlers.Rating.DeleteRating)
	}

	// ─── 4. WebSocket Group (Token Query Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/sections/:section_id/chat", handlers.WS.SectionChatStream)
	}

	// ─── 5. Lecturer Group (Lecturers and Admins) ──────────────────────
	lecturerAPI := router.Group("/api/v1")
	lecturerAPI.Use(middleware.RequireAuth(authService), middleware.RequireLecturer())
	{
		lecturerAPI.GET("/lecturer/dashboard", handlers.Stats.LecturerDashboard)

		// Subjects and chapters
		lecturerAPI.GET("/subjects", handlers.Course.ListSubjects)
		lecturerAPI.GET("/subjects/:subject_id", handlers.Course.GetSubject)
		lecturerAPI.POST("/subjects", handlers.Course.CreateSubject)
		lecturerAPI.PUT("/subjects/:subject_id", handlers.Course.UpdateSubject)
		lecturerAPI.DELETE("/subjects/:subject_id", handlers.Course.DeleteSubject)
		lecturerAPI.POST("/subjects/:subject_id/chapters", handlers.Course.CreateChapter)
		lecturerAPI.PUT("/chapters/:chapter_id", handlers.Course.UpdateChapter)
		lecturerAPI.DELETE("/chapters/:chapter_id", handlers.Course.DeleteChapter)

		// Lectures
		lecturerAPI.POST("/chapters/:chapter_id/lectures", handlers.Lecture.CreateLecture)
		lecturerAPI.PUT("/lectures/:lecture_id", handlers.Lecture.UpdateLecture)
		lecturerAPI.DELETE("/lectures/:lecture_id", handlers.Lecture.DeleteLecture)

		// Sections and enrollment
		lecturerAPI.GET("/sections", handlers.Course.ListSections)
		lecturerAPI.POST("/sections", handlers.Course.CreateSection)
		lecturerAPI.PUT("/sections/:section_id", handlers.Course.UpdateSection)
		lecturerAPI.DELETE("/sections/:section_id", handlers.Course.DeleteSection)
		lecturerAPI.POST("/sections/:section_id/enrollments", handlers.Course.Enroll)
		lecturerAPI.POST("/sections/:section_id/enrollments/bulk", handlers.Course.BulkEnroll)
		lecturerAPI.DELETE("/sections/:section_id/enrollments/:student_id", handlers.Course.Unenroll)

		// Materials
		lecturerAPI.POST("/sections/:section_id/materials", handlers.Material.Upload)
		lecturerAPI.DELETE("/materials/:material_id", handlers.Material.DeleteMaterial)

		// Student progress visibility
		lecturerAPI.GET("/sections/:section_id/progress", handlers.Progress.ListSectionProgress)

		// Quizzes
		lecturerAPI.GET("/quizzes", handlers.Quiz.ListQuizzes)
		lecturerAPI.GET("/quizzes/:quiz_id", handlers.Quiz.GetQuiz)
		lecturerAPI.POST("/quizzes", handlers.Quiz.CreateQuiz)
		lecturerAPI.PUT("/quizzes/:quiz_id", handlers.Quiz.UpdateQuiz)
		lecturerAPI.DELETE("/quizzes/:quiz_id", handlers.Quiz.DeleteQuiz)
		lecturerAPI.POST("/quizzes/:quiz_id/publish", handlers.Quiz.PublishQuiz)
		lecturerAPI.POST("/quizzes/:quiz_id/close", handlers.Quiz.CloseQuiz)

		// Questions
		lecturerAPI.GET("/quizzes/:quiz_id/questions", handlers.Question.ListQuestions)
		lecturerAPI.POST("/quizzes/:quiz_id/questions", handlers.Question.CreateQuestion)
		lecturerAPI.PUT("/quizzes/:quiz_id/questions/:question_id", handlers.Question.UpdateQuestion)
		lecturerAPI.DELETE("/quizzes/:quiz_id/questions/:question_id", handlers.Question.DeleteQuestion)
		lecturerAPI.POST("/quizzes/:quiz_id/questions/import", handlers.Question.ImportQuestions)

		// Results
		lecturerAPI.GET("/quizzes/:quiz_id/results", handlers.Attempt.ListResults)
		lecturerAPI.GET("/quizzes/:quiz_id/results/summary", handlers.Attempt.QuizAggregate)
		lecturerAPI.GET("/quizzes/:quiz_id/results/questions", handlers.Attempt.QuestionStats)
	}

	// ─── 6. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAuth(authService), middleware.RequireAdmin())
	{
		adminAPI.GET("/dashboard", handlers.Stats.AdminDashboard)

		adminAPI.GET("/students", handlers.Account.ListStudents)
		adminAPI.GET("/students/:student_id", handlers.Account.GetStudent)
		adminAPI.POST("/students", handlers.Account.CreateStudent)
		adminAPI.PUT("/students/:student_id", handlers.Account.UpdateStudent)
		adminAPI.DELETE("/students/:student_id", handlers.Account.DeleteStudent)

		adminAPI.GET("/lecturers", handlers.Account.ListLecturers)
		adminAPI.GET("/lecturers/:lecturer_id", handlers.Account.GetLecturer)
		adminAPI.POST("/lecturers", handlers.Account.CreateLecturer)
		adminAPI.PUT("/lecturers/:lecturer_id", handlers.Account.UpdateLecturer)

		adminAPI.PATCH("/accounts/:account_id/active", handlers.Account.SetAccountActive)
	}

	return router
}
