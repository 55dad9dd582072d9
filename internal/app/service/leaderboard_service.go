package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const leaderboardCacheKey = "leaderboard:v1"

// LeaderboardService recomputes the board from the full ledger on demand and
// caches the result in Redis for a short interval; the board is read-mostly
// and tens of seconds of staleness is acceptable.
type LeaderboardService struct {
	memberRepo repository.MemberRepository
	solveRepo  repository.SolveRepository
	rdb        *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewLeaderboardService(
	memberRepo repository.MemberRepository,
	solveRepo repository.SolveRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		memberRepo: memberRepo,
		solveRepo:  solveRepo,
		rdb:        rdb,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// GetLeaderboard returns the ranked board, serving from cache when fresh.
// Cache failures degrade to recomputation, never to an error.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if cached, err := s.rdb.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
		var entries []model.LeaderboardEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			return entries, nil
		}
		s.logger.Warn("leaderboard cache held invalid JSON, recomputing")
	} else if err != redis.Nil {
		s.logger.Warn("leaderboard cache read failed", "err", err)
	}

	entries, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.rdb.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("leaderboard cache write failed", "err", err)
		}
	}
	return entries, nil
}

func (s *LeaderboardService) compute(ctx context.Context) ([]model.LeaderboardEntry, error) {
	members, err := s.memberRepo.ListByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	solves, err := s.solveRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	solvesByMember := make(map[string][]model.Solve, len(members))
	for _, solve := range solves {
		solvesByMember[solve.MemberID] = append(solvesByMember[solve.MemberID], solve)
	}

	return BuildLeaderboard(members, solvesByMember, time.Now()), nil
}
