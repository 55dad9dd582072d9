package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"

	"github.com/google/uuid"
)

type VerificationState string

const (
	StateConfirmed    VerificationState = "confirmed"
	StateNotYetSolved VerificationState = "not_yet_solved"
	StateFailed       VerificationState = "failed"
)

type VerificationResult struct {
	State    VerificationState `json:"state"`
	Message  string            `json:"message,omitempty"`
	Problem  *model.Problem    `json:"problem,omitempty"`
	SolvedAt *time.Time        `json:"solved_at,omitempty"`
}

// VerificationService runs the member-initiated "I solved it" check against
// the judge and appends confirmed solves to the ledger.
type VerificationService struct {
	memberRepo  repository.MemberRepository
	problemRepo repository.ProblemRepository
	solveRepo   repository.SolveRepository
	judge       JudgeClient
	logger      *slog.Logger
}

func NewVerificationService(
	memberRepo repository.MemberRepository,
	problemRepo repository.ProblemRepository,
	solveRepo repository.SolveRepository,
	judgeClient JudgeClient,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		memberRepo:  memberRepo,
		problemRepo: problemRepo,
		solveRepo:   solveRepo,
		judge:       judgeClient,
		logger:      logger,
	}
}

// Verify checks whether the member has solved the given problem. A solve
// already in the ledger short-circuits to confirmed without a judge call.
// On a fresh confirmation exactly one record is appended; a concurrent
// duplicate insert is absorbed, never surfaced. Judge failures return the
// failed state together with the underlying error so callers can map it.
func (s *VerificationService) Verify(ctx context.Context, memberID, problemID string) (*VerificationResult, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	recorded, err := s.solveRepo.Exists(ctx, memberID, problemID)
	if err != nil {
		return nil, err
	}
	if recorded {
		return &VerificationResult{State: StateConfirmed, Problem: problem,
			Message: "solve already recorded"}, nil
	}

	solved, err := s.judge.HasSolved(ctx, member.CFHandle, problem.ContestID, problem.Index)
	if err != nil {
		return &VerificationResult{State: StateFailed, Problem: problem, Message: err.Error()}, err
	}
	if !solved {
		return &VerificationResult{State: StateNotYetSolved, Problem: problem,
			Message: fmt.Sprintf("no accepted submission for %s found yet", problem.Ref())}, nil
	}

	now := time.Now()
	if err := s.recordSolve(ctx, memberID, problemID, now); err != nil {
		return nil, err
	}
	return &VerificationResult{State: StateConfirmed, Problem: problem, SolvedAt: &now}, nil
}

func (s *VerificationService) recordSolve(ctx context.Context, memberID, problemID string, at time.Time) error {
	solve := &model.Solve{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		ProblemID: problemID,
		SolvedAt:  at,
	}
	err := s.solveRepo.Insert(ctx, solve)
	if err != nil && errors.Is(err, common.ErrConflict) {
		// Lost a race with a concurrent verification; the record exists.
		return nil
	}
	return err
}

type MemberCheckResult struct {
	Name     string `json:"name"`
	CFHandle string `json:"cf_handle"`
	Solved   bool   `json:"solved"`
}

type CheckAllResult struct {
	Problem *model.Problem      `json:"problem"`
	Results []MemberCheckResult `json:"results"`
}

// CheckAllMembers sweeps every approved member against the current problem
// of the day, recording any newly confirmed solves. The judge's rate gate
// serializes throughput; a failing check for one member does not abort the
// sweep for the rest.
func (s *VerificationService) CheckAllMembers(ctx context.Context) (*CheckAllResult, error) {
	problem, err := s.problemRepo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("no problem of the day set: %w", common.ErrNotFound)
		}
		return nil, err
	}

	members, err := s.memberRepo.ListByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}

	out := &CheckAllResult{Problem: problem, Results: make([]MemberCheckResult, 0, len(members))}
	for _, member := range members {
		solved, err := s.checkOne(ctx, &member, problem)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("sweep: check failed",
				"handle", member.CFHandle, "problem", problem.Ref(), "err", err)
		}
		out.Results = append(out.Results, MemberCheckResult{
			Name:     member.Name,
			CFHandle: member.CFHandle,
			Solved:   solved,
		})
	}
	return out, nil
}

func (s *VerificationService) checkOne(ctx context.Context, member *model.Member, problem *model.Problem) (bool, error) {
	recorded, err := s.solveRepo.Exists(ctx, member.ID, problem.ID)
	if err != nil {
		return false, err
	}
	if recorded {
		return true, nil
	}

	solved, err := s.judge.HasSolved(ctx, member.CFHandle, problem.ContestID, problem.Index)
	if err != nil || !solved {
		return false, err
	}
	if err := s.recordSolve(ctx, member.ID, problem.ID, time.Now()); err != nil {
		return true, err
	}
	return true, nil
}
