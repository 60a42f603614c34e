package domain

import "time"

// Post is a blog entry. CategoryID and CoverMediaID are optional references.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Body         string    `json:"body,omitempty"`
	CategoryID   *string   `json:"categoryId,omitempty"`
	CoverMediaID *string   `json:"coverMediaId,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Category groups posts.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Gallery is an ordered collection of media ids.
type Gallery struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MediaIDs    []string  `json:"mediaIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HomePageID is the fixed identifier of the singleton home page row.
const HomePageID = "home"

// HomePage is the singleton landing page content.
type HomePage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Intro       string    `json:"intro,omitempty"`
	HeroMediaID *string   `json:"heroMediaId,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
