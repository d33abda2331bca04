package models

import (
	"time"

	"github.com/google/uuid"
)

// Instructor teaches courses.
type Instructor struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FirstName  string    `json:"firstName" db:"first_name"`
	FamilyName string    `json:"familyName" db:"family_name"`
	Bio        string    `json:"bio" db:"bio"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// DisplayName is "family, first", or empty unless both names are set
func (i *Instructor) DisplayName() string {
	if i.FirstName == "" || i.FamilyName == "" {
		return ""
	}
	return i.FamilyName + ", " + i.FirstName
}

// URL returns the canonical detail path of the instructor
func (i *Instructor) URL() string {
	return catalogPathPrefix + "/instructor/" + i.ID.String()
}

// Image returns the image url, falling back to the placeholder
func (i *Instructor) Image() string {
	if i.ImageURL == "" {
		return DefaultInstructorImage
	}
	return i.ImageURL
}
