package models

import "time"

// Mentee represents a young person enrolled in the mentorship program.
type Mentee struct {
	ID            int64        `json:"id" db:"id"`
	FullName      string       `json:"full_name" db:"full_name" binding:"required"`
	DateOfBirth   *string      `json:"date_of_birth,omitempty" db:"date_of_birth"` // YYYY-MM-DD
	GuardianName  *string      `json:"guardian_name,omitempty" db:"guardian_name"`
	GuardianPhone *string      `json:"guardian_phone,omitempty" db:"guardian_phone"`
	School        *string      `json:"school,omitempty" db:"school"`
	Notes         *string      `json:"notes,omitempty" db:"notes"`
	PhotoFileKey  *string      `json:"photo_file_key,omitempty" db:"photo_file_key"` // object-store reference only
	MentorID      *int64       `json:"mentor_id,omitempty" db:"mentor_id"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
	Mentor        *StaffMember `json:"mentor,omitempty"` // populated when joined with staff
}

// Session represents a scheduled mentorship session between a staff member and a mentee.
type Session struct {
	ID        int64        `json:"id" db:"id"`
	StaffID   int64        `json:"staff_id" db:"staff_id" binding:"required"`
	MenteeID  int64        `json:"mentee_id" db:"mentee_id" binding:"required"`
	StartTime time.Time    `json:"start_time" db:"start_time"`
	EndTime   time.Time    `json:"end_time" db:"end_time"`
	Location  *string      `json:"location,omitempty" db:"location"`
	Notes     *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	Staff     *StaffMember `json:"staff,omitempty"`
	Mentee    *Mentee      `json:"mentee,omitempty"`
}
