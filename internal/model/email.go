package model

import "time"

// EmailRecord is an entry in the recruitment email database.
type EmailRecord struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Source    string     `json:"source,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Course is a training course managed from the admin console.
type Course struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons,omitempty"`
}

// Lesson is a single lesson within a course.
type Lesson struct {
	ID       string `json:"id,omitempty"`
	CourseID string `json:"course_id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Position int    `json:"position,omitempty"`
}
