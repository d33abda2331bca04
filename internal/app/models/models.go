package models

// Field limits checked on submitted text, before HTML escaping.
const (
	TitleMinLength    = 3
	TitleMaxLength    = 100
	NameMaxLength     = 100
	BioMaxLength      = 2000
	DescriptionMaxLen = 2000
	DefaultLeftSpots  = 30
	catalogPathPrefix = "/catalog"
)

// DefaultInstructorImage is the placeholder used when no image was uploaded
const DefaultInstructorImage = "/images/profile_images/default.jpg"
