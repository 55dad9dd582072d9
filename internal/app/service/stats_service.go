package service

import (
	"context"
	"errors"
	"time"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"
)

// ContributionWindowDays is the trailing window of the contribution calendar.
const ContributionWindowDays = 365

type MemberStats struct {
	TotalSolves        int            `json:"total_solves"`
	CurrentStreak      int            `json:"current_streak"`
	Calendar           map[string]int `json:"calendar"`
	RatingDistribution map[int]int    `json:"rating_distribution"`
}

type Dashboard struct {
	Member        *model.Member  `json:"member"`
	TotalSolves   int            `json:"total_solves"`
	CurrentStreak int            `json:"current_streak"`
	POTD          *model.Problem `json:"potd,omitempty"`
	POTDSolved    bool           `json:"potd_solved"`
}

// StatsService derives per-member aggregates from the solve ledger. All
// computation is pure over what the repositories return.
type StatsService struct {
	memberService *MemberService
	problemRepo   repository.ProblemRepository
	solveRepo     repository.SolveRepository
}

func NewStatsService(memberService *MemberService, problemRepo repository.ProblemRepository, solveRepo repository.SolveRepository) *StatsService {
	return &StatsService{
		memberService: memberService,
		problemRepo:   problemRepo,
		solveRepo:     solveRepo,
	}
}

func (s *StatsService) MemberStats(ctx context.Context, memberID string) (*MemberStats, error) {
	solves, err := s.solveRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	times := make([]time.Time, 0, len(solves))
	for _, solve := range solves {
		times = append(times, solve.SolvedAt)
	}

	return &MemberStats{
		TotalSolves:        len(solves),
		CurrentStreak:      ComputeStreak(times, now),
		Calendar:           BuildContributionCalendar(times, ContributionWindowDays, now),
		RatingDistribution: BuildRatingDistribution(solves),
	}, nil
}

// GetDashboard assembles the member's landing view: their refreshed
// Codeforces profile, solve totals, and the current POTD with a solved flag.
func (s *StatsService) GetDashboard(ctx context.Context, memberID string) (*Dashboard, error) {
	member, err := s.memberService.FindApproved(ctx, memberID)
	if err != nil {
		return nil, err
	}
	member = s.memberService.RefreshCFProfile(ctx, member)

	solves, err := s.solveRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(solves))
	for _, solve := range solves {
		times = append(times, solve.SolvedAt)
	}

	dashboard := &Dashboard{
		Member:        member,
		TotalSolves:   len(solves),
		CurrentStreak: ComputeStreak(times, time.Now()),
	}

	potd, err := s.problemRepo.FindLatest(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return dashboard, nil // no POTD assigned yet
	}
	dashboard.POTD = potd

	solved, err := s.solveRepo.Exists(ctx, memberID, potd.ID)
	if err != nil {
		return nil, err
	}
	dashboard.POTDSolved = solved
	return dashboard, nil
}
