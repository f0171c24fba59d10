package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/database"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/logger"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

// Seeds 50 demo student accounts for local development. Every account
// gets the same password; never run this against production.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	accountRepo := repository.NewAccountRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	lecturerRepo := repository.NewLecturerRepository(pool)

	authService := service.NewAuthService(cfg, accountRepo, nil)
	accountService := service.NewAccountService(accountRepo, studentRepo, lecturerRepo, authService, log)

	fmt.Println("=== Seeding 50 Students ===")

	created := 0
	for i := 1; i <= 50; i++ {
		req := &model.CreateStudentRequest{
			Email:       fmt.Sprintf("student%02d@demo.local", i),
			Password:    "password123",
			StudentCode: fmt.Sprintf("SV%04d", i),
			FullName:    fmt.Sprintf("Demo Student %02d", i),
		}

		if _, _, err := accountService.CreateStudent(ctx, req); err != nil {
			if errors.Is(err, service.ErrDuplicateAccount) {
				fmt.Printf("  skip %s (already exists)\n", req.Email)
				continue
			}
			log.Fatal().Err(err).Str("email", req.Email).Msg("Seed failed")
		}
		created++
	}

	fmt.Printf("Done: %d students created\n", created)
}
