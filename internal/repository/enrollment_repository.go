package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schooldesk/school-services/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB, metrics QueryObserver) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, metrics: metrics}
}

// ListByStudent returns every enrollment owned by a student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	defer observeQuery(r.metrics, "enrollments.list_by_student", time.Now())
	const query = `SELECT id, student_id, class_id, enrollment_date, status, completion_date
        FROM enrollments WHERE student_id = $1 ORDER BY enrollment_date DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	defer observeQuery(r.metrics, "enrollments.find_by_id", time.Now())
	const query = `SELECT id, student_id, class_id, enrollment_date, status, completion_date FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks whether the student already holds an enrollment for the class.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, classID string) (bool, error) {
	defer observeQuery(r.metrics, "enrollments.exists", time.Now())
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2 LIMIT 1", studentID, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment. The duplicate probe and the insert run in
// one transaction; a racing insert that slips past the probe is rejected by
// the (student_id, class_id) unique constraint. Both paths surface as
// ErrDuplicateEnrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	defer observeQuery(r.metrics, "enrollments.create", time.Now())
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create enrollment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.GetContext(ctx, &exists,
		"SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2 LIMIT 1",
		enrollment.StudentID, enrollment.ClassID)
	if err == nil {
		return ErrDuplicateEnrollment
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check enrollment: %w", err)
	}

	const query = `INSERT INTO enrollments (id, student_id, class_id, enrollment_date, status, completion_date)
        VALUES (:id, :student_id, :class_id, :enrollment_date, :status, :completion_date)`
	if _, err := tx.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus updates status and completion_date for an enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, completionDate *time.Time) error {
	defer observeQuery(r.metrics, "enrollments.update_status", time.Now())
	const query = `UPDATE enrollments SET status = $2, completion_date = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, completionDate); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

// Delete removes a single enrollment row.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	defer observeQuery(r.metrics, "enrollments.delete", time.Now())
	if _, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
