// internal/domain/models/landingpage.go
package models

import (
	"time"

	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// LandingPage is a marketing page composed of an ordered list of sections.
// The JSON form is what the public and admin APIs return.
type LandingPage struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IsActive    bool          `json:"isActive"`
	Sections    sections.List `json:"sections"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MetaDescription returns the description, or a generated one when empty.
func (p LandingPage) MetaDescription() string {
	if p.Description != "" {
		return p.Description
	}
	return "Chi tiết về " + p.Title
}
