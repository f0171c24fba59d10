package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/database"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/handler"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/logger"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/router"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	lecturerRepo := repository.NewLecturerRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	chapterRepo := repository.NewChapterRepository(pool)
	lectureRepo := repository.NewLectureRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, accountRepo, rdb)
	accountService := service.NewAccountService(accountRepo, studentRepo, lecturerRepo, authService, log)
	courseService := service.NewCourseService(subjectRepo, chapterRepo, sectionRepo, log)
	lectureService := service.NewLectureService(lectureRepo, chapterRepo, subjectRepo, log)
	materialService := service.NewMaterialService(cfg, materialRepo, sectionRepo, log)
	quizService := service.NewQuizService(quizRepo, questionRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, quizRepo, quizService, log)
	attemptService := service.NewAttemptService(quizService, submissionRepo, log)
	ratingService := service.NewRatingService(ratingRepo, sectionRepo, lectureRepo, rdb, log)
	progressService := service.NewProgressService(progressRepo, lectureRepo, sectionRepo, log)
	chatService := service.NewChatService(chatRepo, sectionRepo, rdb, log)
	statsService := service.NewStatsService(statsRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Account:  handler.NewAccountHandler(accountService),
		Course:   handler.NewCourseHandler(courseService),
		Lecture:  handler.NewLectureHandler(lectureService),
		Material: handler.NewMaterialHandler(materialService),
		Quiz:     handler.NewQuizHandler(quizService),
		Question: handler.NewQuestionHandler(questionService),
		Attempt:  handler.NewAttemptHandler(attemptService),
		Rating:   handler.NewRatingHandler(ratingService),
		Progress: handler.NewProgressHandler(progressService),
		Chat:     handler.NewChatHandler(chatService),
		Stats:    handler.NewStatsHandler(statsService),
		WS:       handler.NewWSHandler(chatService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	ratingWorker := worker.NewRatingWorker(ratingService, rdb, log)
	expiryWorker := worker.NewExpiryWorker(submissionRepo, log)

	go ratingWorker.Start(workerCtx)
	go expiryWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published quizzes into Redis BEFORE accepting traffic.
	// This avoids race conditions from lazy loading under thundering herd.
	if err := quizService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
