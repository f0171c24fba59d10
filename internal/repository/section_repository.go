package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

var (
	// ErrSectionFull is returned when an enrollment would exceed max_students.
	ErrSectionFull = errors.New("course section is at capacity")
	// ErrAlreadyEnrolled is returned when the student already has an
	// enrollment row for the section.
	ErrAlreadyEnrolled = errors.New("student already enrolled in section")
)

// SectionRepository handles course section and enrollment data access.
type SectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

// GetByID retrieves a course section by ID.
func (r *SectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CourseSection, error) {
	s := &model.CourseSection{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, lecturer_id, section_name, semester, academic_year,
		        max_students, start_date, end_date, created_at, updated_at
		 FROM course_sections WHERE id = $1`, id,
	).Scan(&s.ID, &s.SubjectID, &s.LecturerID, &s.SectionName, &s.Semester, &s.AcademicYear,
		&s.MaxStudents, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a course section.
func (r *SectionRepository) Create(ctx context.Context, s *model.CourseSection) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO course_sections (subject_id, lecturer_id, section_name, semester, academic_year, max_students, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		s.SubjectID, s.LecturerID, s.SectionName, s.Semester, s.AcademicYear, s.MaxStudents, s.StartDate, s.EndDate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update applies changes to a course section.
func (r *SectionRepository) Update(ctx context.Context, s *model.CourseSection) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE course_sections
		 SET section_name = $1, semester = $2, academic_year = $3, max_students = $4,
		     start_date = $5, end_date = $6, updated_at = NOW()
		 WHERE id = $7`,
		s.SectionName, s.Semester, s.AcademicYear, s.MaxStudents, s.StartDate, s.EndDate, s.ID,
	)
	return err
}

// Delete removes a course section. Enrollments, materials and chat cascade.
func (r *SectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM course_sections WHERE id = $1`, id)
	return err
}

// ListPaginated retrieves sections with pagination and an optional
// lecturer-ownership filter.
func (r *SectionRepository) ListPaginated(ctx context.Context, lecturerID *int, limit, offset int) ([]model.CourseSection, int, error) {
	countQuery := `SELECT COUNT(*) FROM course_sections`
	var countArgs []interface{}
	if lecturerID != nil {
		countQuery += ` WHERE lecturer_id = $1`
		countArgs = append(countArgs, *lecturerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, subject_id, lecturer_id, section_name, semester, academic_year,
	                 max_students, start_date, end_date, created_at, updated_at
	          FROM course_sections`
	args := []interface{}{}
	if lecturerID != nil {
		query += ` WHERE lecturer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *lecturerID, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sections []model.CourseSection
	for rows.Next() {
		var s model.CourseSection
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.LecturerID, &s.SectionName, &s.Semester, &s.AcademicYear,
			&s.MaxStudents, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		sections = append(sections, s)
	}
	return sections, total, rows.Err()
}

// ListByStudent retrieves the sections a student is actively enrolled in.
func (r *SectionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.CourseSection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cs.id, cs.subject_id, cs.lecturer_id, cs.section_name, cs.semester, cs.academic_year,
		        cs.max_students, cs.start_date, cs.end_date, cs.created_at, cs.updated_at
		 FROM course_sections cs
		 JOIN enrollments e ON e.section_id = cs.id
		 WHERE e.student_id = $1 AND e.status = 'active'
		 ORDER BY cs.created_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.CourseSection
	for rows.Next() {
		var s model.CourseSection
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.LecturerID, &s.SectionName, &s.Semester, &s.AcademicYear,
			&s.MaxStudents, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// IsEnrolled reports whether the student has an active enrollment in the section.
func (r *SectionRepository) IsEnrolled(ctx context.Context, studentID int, sectionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND section_id = $2 AND status = 'active'
		 )`, studentID, sectionID,
	).Scan(&exists)
	return exists, err
}

// Enroll adds one student to a section inside a transaction. The section row
// is locked so the capacity check cannot race a concurrent enrollment.
func (r *SectionRepository) Enroll(ctx context.Context, studentID int, sectionID uuid.UUID) (*model.Enrollment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	e, err := enrollTx(ctx, tx, studentID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// BulkEnroll adds several students in one transaction. All-or-nothing: the
// first capacity or duplicate failure rolls the whole batch back.
func (r *SectionRepository) BulkEnroll(ctx context.Context, studentIDs []int, sectionID uuid.UUID) ([]model.Enrollment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	enrollments := make([]model.Enrollment, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		e, err := enrollTx(ctx, tx, studentID, sectionID)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func enrollTx(ctx context.Context, tx pgx.Tx, studentID int, sectionID uuid.UUID) (*model.Enrollment, error) {
	var maxStudents, enrolled int
	err := tx.QueryRow(ctx,
		`SELECT max_students,
		        (SELECT COUNT(*) FROM enrollments WHERE section_id = cs.id AND status = 'active')
		 FROM course_sections cs WHERE cs.id = $1
		 FOR UPDATE OF cs`, sectionID,
	).Scan(&maxStudents, &enrolled)
	if err != nil {
		return nil, err
	}
	if enrolled >= maxStudents {
		return nil, ErrSectionFull
	}

	// A previously dropped enrollment is reactivated; an active one is a
	// conflict. The conditional DO UPDATE returns no row for active ones.
	e := &model.Enrollment{StudentID: studentID, SectionID: sectionID, Status: model.EnrollmentActive}
	err = tx.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, section_id) VALUES ($1, $2)
		 ON CONFLICT (student_id, section_id) DO UPDATE
		 SET status = 'active', enrolled_at = NOW()
		 WHERE enrollments.status = 'dropped'
		 RETURNING id, status, enrolled_at`,
		studentID, sectionID,
	).Scan(&e.ID, &e.Status, &e.EnrolledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return e, nil
}

// Unenroll marks a student's enrollment as dropped.
func (r *SectionRepository) Unenroll(ctx context.Context, studentID int, sectionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE enrollments SET status = 'dropped' WHERE student_id = $1 AND section_id = $2 AND status = 'active'`,
		studentID, sectionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
