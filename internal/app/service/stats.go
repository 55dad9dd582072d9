package service

import (
	"sort"
	"time"

	"algoclub/internal/domain/model"
)

// dateOf truncates a timestamp to its calendar day in the given location.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ComputeStreak counts consecutive calendar days, ending at the most recent
// solve, on which at least one solve was recorded. A streak is only alive if
// the most recent solve day is today or yesterday relative to now; otherwise
// it is broken by absence and counts as 0. Duplicate same-day solves count
// once.
func ComputeStreak(solveTimes []time.Time, now time.Time) int {
	if len(solveTimes) == 0 {
		return 0
	}
	loc := now.Location()

	seen := make(map[time.Time]struct{}, len(solveTimes))
	days := make([]time.Time, 0, len(solveTimes))
	for _, t := range solveTimes {
		d := dateOf(t, loc)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	yesterday := dateOf(now, loc).AddDate(0, 0, -1)
	if days[0].Before(yesterday) {
		return 0
	}

	streak := 1
	anchor := days[0]
	for _, d := range days[1:] {
		if !d.Equal(anchor.AddDate(0, 0, -1)) {
			break
		}
		streak++
		anchor = d
	}
	return streak
}

// BuildLeaderboard ranks the given members (callers pass approved members
// only) by total solves, then current streak, then CF rating, with the
// handle as a stable final tiebreak. Members with no solves are included.
func BuildLeaderboard(members []model.Member, solvesByMember map[string][]model.Solve, now time.Time) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		solves := solvesByMember[m.ID]
		times := make([]time.Time, 0, len(solves))
		for _, s := range solves {
			times = append(times, s.SolvedAt)
		}
		entries = append(entries, model.LeaderboardEntry{
			MemberID:      m.ID,
			Name:          m.Name,
			CFHandle:      m.CFHandle,
			CFRating:      m.CFRating,
			CFRank:        m.CFRank,
			TotalSolves:   len(solves),
			CurrentStreak: ComputeStreak(times, now),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalSolves != b.TotalSolves {
			return a.TotalSolves > b.TotalSolves
		}
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if ratingOrZero(a.CFRating) != ratingOrZero(b.CFRating) {
			return ratingOrZero(a.CFRating) > ratingOrZero(b.CFRating)
		}
		return a.CFHandle < b.CFHandle
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

const calendarDateLayout = "2006-01-02"

// BuildContributionCalendar buckets solves per calendar day over the
// trailing window ending today. Every day in the window is present, zero or
// not; solves outside the window are ignored.
func BuildContributionCalendar(solveTimes []time.Time, windowDays int, now time.Time) map[string]int {
	loc := now.Location()
	calendar := make(map[string]int, windowDays)

	today := dateOf(now, loc)
	for i := 0; i < windowDays; i++ {
		calendar[today.AddDate(0, 0, -i).Format(calendarDateLayout)] = 0
	}

	for _, t := range solveTimes {
		key := dateOf(t, loc).Format(calendarDateLayout)
		if _, ok := calendar[key]; ok {
			calendar[key]++
		}
	}
	return calendar
}

// HeatLevel maps a day's solve count to a 0-4 heatmap intensity.
func HeatLevel(count int) int {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	default:
		return 4
	}
}

// BuildRatingDistribution buckets solved problems by difficulty rating in
// steps of 200 (floor(rating/200)*200). Unrated problems are skipped.
func BuildRatingDistribution(solves []model.SolveWithRating) map[int]int {
	dist := map[int]int{}
	for _, s := range solves {
		if s.ProblemRating == nil {
			continue
		}
		bucket := (*s.ProblemRating / 200) * 200
		dist[bucket]++
	}
	return dist
}
