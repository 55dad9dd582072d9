package service

import (
	"context"
	"fmt"
	"time"

	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"
	"algoclub/internal/judge"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ProblemService manages the problem-of-the-day registry.
type ProblemService struct {
	problemRepo repository.ProblemRepository
	judge       JudgeClient
}

func NewProblemService(problemRepo repository.ProblemRepository, judgeClient JudgeClient) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, judge: judgeClient}
}

type AssignPOTDRequest struct {
	// Problem accepts any form ParseProblemID understands:
	// "1955C", "1955/C", or a Codeforces problem URL.
	Problem string `json:"problem"`
}

// AssignPOTD parses the identifier, fetches the problem's metadata from the
// judge, and stores it as today's problem. At most one problem exists per
// date; a second assignment for the same day is a conflict.
func (s *ProblemService) AssignPOTD(ctx context.Context, adminID string, req AssignPOTDRequest) (*model.Problem, error) {
	ref, err := judge.ParseProblemID(req.Problem)
	if err != nil {
		return nil, err
	}

	info, err := s.judge.FetchProblemInfo(ctx, ref.ContestID, ref.Index)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	problem := &model.Problem{
		ID:           uuid.NewString(),
		ContestID:    ref.ContestID,
		Index:        ref.Index,
		Name:         info.Name,
		Slug:         slug.Make(fmt.Sprintf("%d%s %s", ref.ContestID, ref.Index, info.Name)),
		Rating:       info.Rating,
		Tags:         info.Tags,
		AssignedDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		CreatedByID:  &adminID,
	}

	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, err
	}
	return problem, nil
}

// Today returns the current problem of the day: the latest assignment.
func (s *ProblemService) Today(ctx context.Context) (*model.Problem, error) {
	return s.problemRepo.FindLatest(ctx)
}

// CheckProblem resolves an identifier against the judge without storing
// anything. Admins use it to preview a problem before assigning it.
func (s *ProblemService) CheckProblem(ctx context.Context, id string) (*judge.ProblemInfo, error) {
	ref, err := judge.ParseProblemID(id)
	if err != nil {
		return nil, err
	}
	return s.judge.FetchProblemInfo(ctx, ref.ContestID, ref.Index)
}

func (s *ProblemService) ListProblems(ctx context.Context, page, pageSize int) ([]model.Problem, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.problemRepo.List(ctx, limit, offset)
}
