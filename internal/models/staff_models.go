package models

import "time"

// StaffMember represents a program employee or mentor.
type StaffMember struct {
	ID          int64     `json:"id" db:"id"`
	UserID      *int64    `json:"user_id,omitempty" db:"user_id"` // link to users table for login
	PhoneNumber *string   `json:"phone_number,omitempty" db:"phone_number"`
	Position    *string   `json:"position,omitempty" db:"position"`
	HireDate    *string   `json:"hire_date,omitempty" db:"hire_date"` // YYYY-MM-DD
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	User        *User     `json:"user,omitempty"` // full name / email from the linked user
}
