package models

import "time"

type Course struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacher_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Thumbnail   *string   `json:"thumbnail"`
	IsActive    bool      `json:"is_active"`
	IsPublic    bool      `json:"is_public"`
	PriceCents  int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Week struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	WeekNumber int    `json:"week_number"`
	Name       string `json:"name"`
	Days       []Day  `json:"days"`
}

type Day struct {
	ID        int64      `json:"id"`
	WeekID    int64      `json:"week_id"`
	DayNumber int        `json:"day_number"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	ID         int64   `json:"id"`
	DayID      int64   `json:"day_id"`
	Name       string  `json:"name"`
	YoutubeURL *string `json:"youtube_url"`
	Notes      *string `json:"notes"`
	Sets       *int    `json:"sets"`
	Reps       *string `json:"reps"`
	Rest       *string `json:"rest"`
	OrderIndex int     `json:"order_index"`
}

// CourseDetail is the full nested tree returned by the single-course
// and teacher course listing endpoints.
type CourseDetail struct {
	Course
	Teacher         *UserRef           `json:"teacher,omitempty"`
	Weeks           []Week             `json:"weeks"`
	Enrollments     []EnrollmentDetail `json:"enrollments,omitempty"`
	EnrollmentCount int                `json:"enrollment_count"`
}

// CatalogCourse is the public catalog projection with live aggregate counts.
type CatalogCourse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	Thumbnail       *string   `json:"thumbnail"`
	PriceCents      int64     `json:"price"`
	Teacher         UserRef   `json:"teacher"`
	EnrollmentCount int       `json:"enrollment_count"`
	WeeksCount      int       `json:"weeks_count"`
	IsEnrolled      bool      `json:"is_enrolled"`
	CreatedAt       time.Time `json:"created_at"`
}
