package model

import (
	"fmt"
	"time"
)

// Problem is a problem-of-the-day entry. Contest ID and index identify the
// problem on Codeforces; name, rating and tags are copied from the judge at
// assignment time so listings never need a judge round trip.
type Problem struct {
	ID           string    `json:"id"`
	ContestID    int       `json:"contest_id"`
	Index        string    `json:"index"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Rating       *int      `json:"rating,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	AssignedDate time.Time `json:"assigned_date"`
	CreatedByID  *string   `json:"created_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// URL returns the judge's problem page.
func (p *Problem) URL() string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
}

// Ref returns the compact "1955C" identifier.
func (p *Problem) Ref() string {
	return fmt.Sprintf("%d%s", p.ContestID, p.Index)
}
