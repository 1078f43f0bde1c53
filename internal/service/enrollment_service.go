package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/schooldesk/school-services/internal/models"
	"github.com/schooldesk/school-services/internal/repository"
	appErrors "github.com/schooldesk/school-services/pkg/errors"
)

type enrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, classID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, completionDate *time.Time) error
	Delete(ctx context.Context, id string) error
}

type studentReader interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// EnrollmentService handles enrollment use-cases.
type EnrollmentService struct {
	repo     enrollmentRepository
	students studentReader
	logger   *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, logger: logger}
}

// Enroll registers the student in a class. At most one enrollment may exist
// per (student, class) pair.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, classID string) (*models.Enrollment, error) {
	classID = strings.TrimSpace(classID)
	if classID == "" {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid enrollment payload"),
			[]appErrors.FieldViolation{{Field: "classId", Message: "is required"}})
	}

	exists, err := s.students.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	enrolled, err := s.repo.Exists(ctx, studentID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in class")
	}

	enrollment := &models.Enrollment{
		StudentID:      studentID,
		ClassID:        classID,
		EnrollmentDate: time.Now().UTC(),
		Status:         models.EnrollmentStatusActive,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in class")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("class_id", classID),
		zap.String("enrollment_id", enrollment.ID))
	return enrollment, nil
}

// ListByStudent returns every enrollment owned by the student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	exists, err := s.students.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// UpdateStatus moves the enrollment to a new lifecycle status. Transitioning
// to COMPLETED stamps the completion date; every other status clears it.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if !status.Valid() {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid enrollment status"),
			[]appErrors.FieldViolation{{Field: "newStatus", Message: "must be one of ACTIVE, COMPLETED, DROPPED, PENDING"}})
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	var completionDate *time.Time
	if status == models.EnrollmentStatusCompleted {
		now := time.Now().UTC()
		completionDate = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, completionDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	enrollment.Status = status
	enrollment.CompletionDate = completionDate
	return enrollment, nil
}

// Delete removes a single enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}
