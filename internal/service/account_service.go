package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// ErrDuplicateAccount is returned when an email or profile code collides
// with an existing row.
var ErrDuplicateAccount = errors.New("account with this email or code already exists")

// AccountService handles account and profile management.
type AccountService struct {
	accountRepo  *repository.AccountRepository
	studentRepo  *repository.StudentRepository
	lecturerRepo *repository.LecturerRepository
	auth         *AuthService
	log          zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	studentRepo *repository.StudentRepository,
	lecturerRepo *repository.LecturerRepository,
	auth *AuthService,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		studentRepo:  studentRepo,
		lecturerRepo: lecturerRepo,
		auth:         auth,
		log:          log.With().Str("component", "account_service").Logger(),
	}
}

// CreateStudent registers a student with a linked login account.
func (s *AccountService) CreateStudent(ctx context.Context, req *model.CreateStudentRequest) (*model.Account, *model.Student, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{Email: req.Email, PasswordHash: hash}
	student := &model.Student{StudentCode: req.StudentCode, FullName: req.FullName, Phone: req.Phone}
	if err := s.studentRepo.CreateWithAccount(ctx, account, student); err != nil {
		return nil, nil, mapDuplicate(err)
	}

	s.log.Info().Int("student_id", student.ID).Str("code", student.StudentCode).Msg("Student registered")
	return account, student, nil
}

// CreateLecturer registers a lecturer with a linked login account.
func (s *AccountService) CreateLecturer(ctx context.Context, req *model.CreateLecturerRequest) (*model.Account, *model.Lecturer, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{Email: req.Email, PasswordHash: hash}
	lecturer := &model.Lecturer{
		LecturerCode: req.LecturerCode,
		FullName:     req.FullName,
		Title:        req.Title,
		Department:   req.Department,
	}
	if err := s.lecturerRepo.CreateWithAccount(ctx, account, lecturer); err != nil {
		return nil, nil, mapDuplicate(err)
	}

	s.log.Info().Int("lecturer_id", lecturer.ID).Str("code", lecturer.LecturerCode).Msg("Lecturer registered")
	return account, lecturer, nil
}

// GetStudent retrieves a student profile.
func (s *AccountService) GetStudent(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetLecturer retrieves a lecturer profile.
func (s *AccountService) GetLecturer(ctx context.Context, id int) (*model.Lecturer, error) {
	return s.lecturerRepo.GetByID(ctx, id)
}

// ListStudents retrieves students with pagination and optional search.
func (s *AccountService) ListStudents(ctx context.Context, search string, page, perPage int) ([]model.Student, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	students, total, err := s.studentRepo.ListPaginated(ctx, search, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, buildPagination(page, perPage, total), nil
}

// ListLecturers retrieves lecturers with pagination.
func (s *AccountService) ListLecturers(ctx context.Context, page, perPage int) ([]model.Lecturer, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	lecturers, total, err := s.lecturerRepo.ListPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if lecturers == nil {
		lecturers = []model.Lecturer{}
	}
	return lecturers, buildPagination(page, perPage, total), nil
}

// UpdateStudent applies profile changes to a student.
func (s *AccountService) UpdateStudent(ctx context.Context, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != "" {
		student.FullName = req.FullName
	}
	if req.Phone != "" {
		student.Phone = req.Phone
	}
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateLecturer applies profile changes to a lecturer.
func (s *AccountService) UpdateLecturer(ctx context.Context, id int, req *model.UpdateLecturerRequest) (*model.Lecturer, error) {
	lecturer, err := s.lecturerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != "" {
		lecturer.FullName = req.FullName
	}
	if req.Title != "" {
		lecturer.Title = req.Title
	}
	if req.Department != "" {
		lecturer.Department = req.Department
	}
	if err := s.lecturerRepo.Update(ctx, lecturer); err != nil {
		return nil, err
	}
	return lecturer, nil
}

// DeleteStudent removes a student and their login account.
func (s *AccountService) DeleteStudent(ctx context.Context, id int) error {
	return s.studentRepo.Delete(ctx, id)
}

// SetAccountActive enables or disables an account's login.
func (s *AccountService) SetAccountActive(ctx context.Context, accountID int, active bool) error {
	return s.accountRepo.SetActive(ctx, accountID, active)
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateAccount
	}
	return err
}
