package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups courses by subject.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// URL returns the canonical detail path of the category
func (c *Category) URL() string {
	return catalogPathPrefix + "/category/" + c.ID.String()
}

// CategoryOption is a category in a form picker
type CategoryOption struct {
	*Category
	Checked bool
}

// CategoryOptions marks every category whose id is in selected as checked
func CategoryOptions(categories []*Category, selected []uuid.UUID) []CategoryOption {
	set := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}

	options := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		_, checked := set[c.ID]
		options = append(options, CategoryOption{Category: c, Checked: checked})
	}
	return options
}
