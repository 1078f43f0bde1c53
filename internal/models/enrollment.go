package models

import "time"

// EnrollmentStatus is the lifecycle tag on an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusPending   EnrollmentStatus = "PENDING"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped, EnrollmentStatusPending:
		return true
	}
	return false
}

// Enrollment joins a student to an externally managed class.
// completion_date is non-nil exactly while status is COMPLETED.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	ClassID        string           `db:"class_id" json:"class_id"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	CompletionDate *time.Time       `db:"completion_date" json:"completion_date,omitempty"`
}
