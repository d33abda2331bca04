package validation

import (
	"fmt"
	"strings"

	"github.com/yigit/coursecatalog/internal/app/models"
)

// Form field names
const (
	FieldTitle       = "title"
	FieldFirstName   = "first_name"
	FieldFamilyName  = "family_name"
	FieldBio         = "bio"
	FieldInstructor  = "instructor"
	FieldDescription = "description"
	FieldLeftSpots   = "left_spots"
	FieldCategory    = "category"
	FieldImage       = "image"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces characters unsafe in HTML with entities
func Escape(s string) string {
	return escaper.Replace(s)
}

var trim = []Sanitizer{Trim}

func titleChecks(requiredMessage string) []Check {
	return []Check{
		{Tag: "required", Message: requiredMessage},
		{
			Tag:     fmt.Sprintf("min=%d,max=%d", models.TitleMinLength, models.TitleMaxLength),
			Message: fmt.Sprintf("Title must be between %d and %d characters.", models.TitleMinLength, models.TitleMaxLength),
		},
	}
}

func nameChecks(label string) []Check {
	return []Check{
		{Tag: "required", Message: label + " must be specified."},
		{Tag: fmt.Sprintf("max=%d", models.NameMaxLength), Message: fmt.Sprintf("%s must be at most %d characters.", label, models.NameMaxLength)},
		{Tag: "alphanum", Message: label + " has non-alphanumeric characters."},
	}
}

// CategoryCreateRules validates the category create form
var CategoryCreateRules = []Rule{
	{Field: FieldTitle, Sanitize: trim, Checks: titleChecks("Category title required"), Escape: true},
}

// CategoryUpdateRules validates the category update form
var CategoryUpdateRules = []Rule{
	{Field: FieldTitle, Sanitize: trim, Checks: titleChecks("Title must not be empty."), Escape: true},
}

// InstructorRules validates the instructor create and update forms
var InstructorRules = []Rule{
	{Field: FieldFirstName, Sanitize: trim, Checks: nameChecks("First name"), Escape: true},
	{Field: FieldFamilyName, Sanitize: trim, Checks: nameChecks("Family name"), Escape: true},
	{
		Field:    FieldBio,
		Sanitize: trim,
		Checks: []Check{
			{Tag: fmt.Sprintf("max=%d", models.BioMaxLength), Message: fmt.Sprintf("Bio must be at most %d characters.", models.BioMaxLength)},
		},
		Escape: true,
	},
}

// CourseRules validates the course create and update forms
var CourseRules = []Rule{
	{Field: FieldTitle, Sanitize: trim, Checks: titleChecks("Title must not be empty."), Escape: true},
	{
		Field:    FieldInstructor,
		Sanitize: trim,
		Checks: []Check{
			{Tag: "required", Message: "Instructor must not be empty."},
			{Tag: "id", Message: "Instructor is not valid."},
		},
	},
	{
		Field:    FieldDescription,
		Sanitize: trim,
		Checks: []Check{
			{Tag: fmt.Sprintf("max=%d", models.DescriptionMaxLen), Message: fmt.Sprintf("Description must be at most %d characters.", models.DescriptionMaxLen)},
		},
		Escape: true,
	},
	{
		Field:    FieldLeftSpots,
		Sanitize: trim,
		Checks:   []Check{{Tag: "integer", Message: "Left Spots must be an integer."}},
	},
}
