package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// StudentRepository handles student profile data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, student_code, full_name, COALESCE(phone, ''), created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.AccountID, &s.StudentCode, &s.FullName, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByAccountID retrieves the student profile linked to an account.
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, student_code, full_name, COALESCE(phone, ''), created_at, updated_at
		 FROM students WHERE account_id = $1`, accountID,
	).Scan(&s.ID, &s.AccountID, &s.StudentCode, &s.FullName, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateWithAccount inserts the account and student profile atomically and
// backfills accounts.role_id with the new profile ID.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, a *model.Account, s *model.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash, role, role_id)
		 VALUES ($1, $2, $3, 0)
		 RETURNING id, is_active, created_at, updated_at`,
		a.Email, a.PasswordHash, model.RoleStudent,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}
	a.Role = model.RoleStudent

	err = tx.QueryRow(ctx,
		`INSERT INTO students (account_id, student_code, full_name, phone)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at, updated_at`,
		a.ID, s.StudentCode, s.FullName, s.Phone,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}
	s.AccountID = a.ID

	if _, err := tx.Exec(ctx, `UPDATE accounts SET role_id = $1 WHERE id = $2`, s.ID, a.ID); err != nil {
		return err
	}
	a.RoleID = s.ID

	return tx.Commit(ctx)
}

// Update applies profile changes to a student.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET full_name = $1, phone = NULLIF($2, ''), updated_at = NOW() WHERE id = $3`,
		s.FullName, s.Phone, s.ID,
	)
	return err
}

// Delete removes a student and, via cascade, the linked account rows that
// reference it. The account itself is removed explicitly.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var accountID int
	if err := tx.QueryRow(ctx, `DELETE FROM students WHERE id = $1 RETURNING account_id`, id).Scan(&accountID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListPaginated retrieves students with pagination and optional search on
// name or student code.
func (r *StudentRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Student, int, error) {
	where := ``
	countArgs := []interface{}{}
	if search != "" {
		where = ` WHERE full_name ILIKE $1 OR student_code ILIKE $1`
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, account_id, student_code, full_name, COALESCE(phone, ''), created_at, updated_at
		 FROM students` + where
	args := append([]interface{}{}, countArgs...)
	if search != "" {
		query += ` ORDER BY full_name ASC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY full_name ASC LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.AccountID, &s.StudentCode, &s.FullName, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// ListBySection retrieves the actively enrolled students of a course section.
func (r *StudentRepository) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.account_id, s.student_code, s.full_name, COALESCE(s.phone, ''), s.created_at, s.updated_at
		 FROM students s
		 JOIN enrollments e ON e.student_id = s.id
		 WHERE e.section_id = $1 AND e.status = 'active'
		 ORDER BY s.full_name ASC`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.AccountID, &s.StudentCode, &s.FullName, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
