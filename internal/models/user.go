package models

import "time"

const (
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

func ValidRole(role string) bool {
	return role == RoleTeacher || role == RoleStudent
}

type User struct {
	ID            int64     `json:"id"`
	Name          *string   `json:"name"`
	Email         string    `json:"email"`
	Image         *string   `json:"image,omitempty"`
	PasswordHash  *string   `json:"-"`
	Role          string    `json:"role"`
	HasChosenRole bool      `json:"has_chosen_role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserRef is the public subset embedded in course and enrollment payloads.
type UserRef struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Image: u.Image}
}
