package model

// LeaderboardEntry is derived, never persisted. Ordering is
// (TotalSolves desc, CurrentStreak desc, CFRating desc, CFHandle asc).
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	MemberID      string  `json:"member_id"`
	Name          string  `json:"name"`
	CFHandle      string  `json:"cf_handle"`
	CFRating      *int    `json:"cf_rating,omitempty"`
	CFRank        *string `json:"cf_rank,omitempty"`
	TotalSolves   int     `json:"total_solves"`
	CurrentStreak int     `json:"current_streak"`
}
