package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is taught by one instructor and filed under any number of categories.
type Course struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	InstructorID uuid.UUID   `json:"instructorId" db:"instructor_id"`
	CategoryIDs  []uuid.UUID `json:"categoryIds"`
	Description  string      `json:"description" db:"description"`
	LeftSpots    int         `json:"leftSpots" db:"left_spots"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructor *Instructor `json:"instructor,omitempty"`
	Categories []*Category `json:"categories,omitempty"`
}

// NewCourse returns a course with the default number of spots
func NewCourse() *Course {
	return &Course{LeftSpots: DefaultLeftSpots, CategoryIDs: []uuid.UUID{}}
}

// URL returns the canonical detail path of the course
func (c *Course) URL() string {
	return catalogPathPrefix + "/course/" + c.ID.String()
}

// HasCategory reports whether the course is filed under the category
func (c *Course) HasCategory(id uuid.UUID) bool {
	for _, categoryID := range c.CategoryIDs {
		if categoryID == id {
			return true
		}
	}
	return false
}
