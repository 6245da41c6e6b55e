package models

import "time"

type InviteCode struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	TeacherID   int64      `json:"teacher_id"`
	CourseID    *int64     `json:"course_id"`
	Used        bool       `json:"used"`
	UsedByEmail *string    `json:"used_by_email"`
	UsedAt      *time.Time `json:"used_at"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// CourseRef is the short course projection attached to invite listings
// and the invite landing page.
type CourseRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type InviteCodeDetail struct {
	InviteCode
	Course  *CourseRef `json:"course,omitempty"`
	Teacher *UserRef   `json:"teacher,omitempty"`
}
