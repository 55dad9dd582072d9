package model

import "time"

// Solve records that a member solved a problem, confirmed against the judge.
// Append-only; at most one record per (member, problem).
type Solve struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	ProblemID string    `json:"problem_id"`
	SolvedAt  time.Time `json:"solved_at"`
}

// SolveWithRating joins a solve with its problem's difficulty rating for
// the rating-distribution chart. Rating is nil for unrated problems.
type SolveWithRating struct {
	Solve
	ProblemRating *int `json:"problem_rating,omitempty"`
}
