package models

import "time"

type Enrollment struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	UserID    int64     `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	IsPaid    bool      `json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
}

type EnrollmentDetail struct {
	Enrollment
	User   *UserRef        `json:"user,omitempty"`
	Course *EnrolledCourse `json:"course,omitempty"`
}

// EnrolledCourse is the course projection attached to a student's
// enrollment listing.
type EnrolledCourse struct {
	Course
	Teacher    UserRef `json:"teacher"`
	WeeksCount int     `json:"weeks_count"`
}
