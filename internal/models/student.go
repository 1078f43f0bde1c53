package models

import "time"

// Student represents a persisted student profile row.
type Student struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	DateOfBirth    time.Time `db:"date_of_birth" json:"date_of_birth"`
	Address        string    `db:"address" json:"address"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter scopes student list queries.
type StudentFilter struct {
	Search    string
	ClassID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalized clamps paging to sane bounds. Callers clamp before querying so
// the metadata matches the rows actually fetched.
func (f StudentFilter) Normalized() StudentFilter {
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
