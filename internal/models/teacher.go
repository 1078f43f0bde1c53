package models

import "time"

// Teacher represents a persisted teacher roster row.
type Teacher struct {
	ID            string     `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Email         string     `db:"email" json:"email"`
	Subject       *string    `db:"subject" json:"subject,omitempty"`
	DateOfJoining *time.Time `db:"date_of_joining" json:"date_of_joining,omitempty"`
	Active        bool       `db:"active" json:"active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// TeacherFilter scopes teacher list queries.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalized clamps paging to sane bounds. Callers clamp before querying so
// the metadata matches the rows actually fetched.
func (f TeacherFilter) Normalized() TeacherFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	} else if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}
