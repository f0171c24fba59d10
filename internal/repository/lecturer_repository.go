package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// LecturerRepository handles lecturer profile data access.
type LecturerRepository struct {
	pool *pgxpool.Pool
}

// NewLecturerRepository creates a new LecturerRepository.
func NewLecturerRepository(pool *pgxpool.Pool) *LecturerRepository {
	return &LecturerRepository{pool: pool}
}

// GetByID retrieves a lecturer by ID.
func (r *LecturerRepository) GetByID(ctx context.Context, id int) (*model.Lecturer, error) {
	l := &model.Lecturer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, lecturer_code, full_name, COALESCE(title, ''), COALESCE(department, ''), created_at, updated_at
		 FROM lecturers WHERE id = $1`, id,
	).Scan(&l.ID, &l.AccountID, &l.LecturerCode, &l.FullName, &l.Title, &l.Department, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByAccountID retrieves the lecturer profile linked to an account.
func (r *LecturerRepository) GetByAccountID(ctx context.Context, accountID int) (*model.Lecturer, error) {
	l := &model.Lecturer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, lecturer_code, full_name, COALESCE(title, ''), COALESCE(department, ''), created_at, updated_at
		 FROM lecturers WHERE account_id = $1`, accountID,
	).Scan(&l.ID, &l.AccountID, &l.LecturerCode, &l.FullName, &l.Title, &l.Department, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateWithAccount inserts the account and lecturer profile atomically and
// backfills accounts.role_id with the new profile ID.
func (r *LecturerRepository) CreateWithAccount(ctx context.Context, a *model.Account, l *model.Lecturer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash, role, role_id)
		 VALUES ($1, $2, $3, 0)
		 RETURNING id, is_active, created_at, updated_at`,
		a.Email, a.PasswordHash, model.RoleLecturer,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}
	a.Role = model.RoleLecturer

	err = tx.QueryRow(ctx,
		`INSERT INTO lecturers (account_id, lecturer_code, full_name, title, department)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		 RETURNING id, created_at, updated_at`,
		a.ID, l.LecturerCode, l.FullName, l.Title, l.Department,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return err
	}
	l.AccountID = a.ID

	if _, err := tx.Exec(ctx, `UPDATE accounts SET role_id = $1 WHERE id = $2`, l.ID, a.ID); err != nil {
		return err
	}
	a.RoleID = l.ID

	return tx.Commit(ctx)
}

// Update applies profile changes to a lecturer.
func (r *LecturerRepository) Update(ctx context.Context, l *model.Lecturer) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lecturers
		 SET full_name = $1, title = NULLIF($2, ''), department = NULLIF($3, ''), updated_at = NOW()
		 WHERE id = $4`,
		l.FullName, l.Title, l.Department, l.ID,
	)
	return err
}

// ListPaginated retrieves lecturers with pagination.
func (r *LecturerRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Lecturer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lecturers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, lecturer_code, full_name, COALESCE(title, ''), COALESCE(department, ''), created_at, updated_at
		 FROM lecturers ORDER BY full_name ASC LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lecturers []model.Lecturer
	for rows.Next() {
		var l model.Lecturer
		if err := rows.Scan(&l.ID, &l.AccountID, &l.LecturerCode, &l.FullName, &l.Title, &l.Department, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		lecturers = append(lecturers, l)
	}
	return lecturers, total, rows.Err()
}
