package service

import (
	"context"

	"algoclub/internal/judge"
)

// JudgeClient is the slice of the Codeforces client the services need;
// tests substitute a fake.
type JudgeClient interface {
	FetchProblemInfo(ctx context.Context, contestID int, index string) (*judge.ProblemInfo, error)
	HasSolved(ctx context.Context, handle string, contestID int, index string) (bool, error)
	FetchUserInfo(ctx context.Context, handle string) (*judge.UserInfo, error)
}
