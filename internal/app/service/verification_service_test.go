package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"
	"algoclub/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJudge struct {
	solved    map[string]bool // "handle/1955C" -> solved
	err       error
	calls     int
	infos     map[string]*judge.ProblemInfo
	userInfos map[string]*judge.UserInfo
}

func (f *fakeJudge) HasSolved(_ context.Context, handle string, contestID int, index string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.solved[fmt.Sprintf("%s/%d%s", handle, contestID, index)], nil
}

func (f *fakeJudge) FetchProblemInfo(_ context.Context, contestID int, index string) (*judge.ProblemInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.infos[fmt.Sprintf("%d%s", contestID, index)]
	if !ok {
		return nil, judge.ErrProblemNotFound
	}
	return info, nil
}

func (f *fakeJudge) FetchUserInfo(_ context.Context, handle string) (*judge.UserInfo, error) {
	if info, ok := f.userInfos[handle]; ok {
		return info, nil
	}
	return nil, &judge.APIError{Comment: "handle not found"}
}

type fakeMemberRepo struct {
	members map[string]*model.Member
}

func (f *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id string) (*model.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) FindByEmail(_ context.Context, email string) (*model.Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeMemberRepo) FindByHandle(_ context.Context, handle string) (*model.Member, error) {
	for _, m := range f.members {
		if m.CFHandle == handle {
			cp := *m
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeMemberRepo) ListByStatus(_ context.Context, status model.Status) ([]model.Member, error) {
	var out []model.Member
	for _, m := range f.members {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) ListAll(_ context.Context) ([]model.Member, error) {
	var out []model.Member
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMemberRepo) UpdateStatus(_ context.Context, id string, status model.Status) (*model.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	m.Status = status
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) UpdateCFProfile(_ context.Context, id string, rating, maxRating *int, rank, avatar *string) error {
	m, ok := f.members[id]
	if !ok {
		return common.ErrNotFound
	}
	m.CFRating, m.CFMaxRating, m.CFRank, m.CFAvatarURL = rating, maxRating, rank, avatar
	return nil
}

type fakeProblemRepo struct {
	problems map[string]*model.Problem
	latest   *model.Problem
}

func (f *fakeProblemRepo) Create(_ context.Context, p *model.Problem) error {
	f.problems[p.ID] = p
	f.latest = p
	return nil
}

func (f *fakeProblemRepo) FindByID(_ context.Context, id string) (*model.Problem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeProblemRepo) FindLatest(_ context.Context) (*model.Problem, error) {
	if f.latest == nil {
		return nil, common.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeProblemRepo) List(_ context.Context, limit, offset int) ([]model.Problem, int, error) {
	var out []model.Problem
	for _, p := range f.problems {
		out = append(out, *p)
	}
	return out, len(out), nil
}

type fakeSolveRepo struct {
	solves    map[string]*model.Solve // member_id/problem_id
	insertErr error
	inserts   int
}

func solveKey(memberID, problemID string) string { return memberID + "/" + problemID }

func (f *fakeSolveRepo) Insert(_ context.Context, s *model.Solve) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	key := solveKey(s.MemberID, s.ProblemID)
	if _, ok := f.solves[key]; ok {
		return fmt.Errorf("solve already recorded: %w", common.ErrConflict)
	}
	f.solves[key] = s
	return nil
}

func (f *fakeSolveRepo) Exists(_ context.Context, memberID, problemID string) (bool, error) {
	_, ok := f.solves[solveKey(memberID, problemID)]
	return ok, nil
}

func (f *fakeSolveRepo) ListByMember(_ context.Context, memberID string) ([]model.SolveWithRating, error) {
	var out []model.SolveWithRating
	for _, s := range f.solves {
		if s.MemberID == memberID {
			out = append(out, model.SolveWithRating{Solve: *s})
		}
	}
	return out, nil
}

func (f *fakeSolveRepo) ListAll(_ context.Context) ([]model.Solve, error) {
	var out []model.Solve
	for _, s := range f.solves {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSolveRepo) CountByMember(_ context.Context, memberID string) (int, error) {
	n := 0
	for _, s := range f.solves {
		if s.MemberID == memberID {
			n++
		}
	}
	return n, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func verificationFixture() (*VerificationService, *fakeJudge, *fakeSolveRepo, *model.Member, *model.Problem) {
	member := &model.Member{
		ID:       "m1",
		Name:     "Alice",
		CFHandle: "alice_cf",
		Status:   model.StatusApproved,
	}
	problem := &model.Problem{
		ID:           "p1",
		ContestID:    1955,
		Index:        "C",
		Name:         "Inhabitant of the Deep Sea",
		AssignedDate: time.Now(),
	}

	members := &fakeMemberRepo{members: map[string]*model.Member{member.ID: member}}
	problems := &fakeProblemRepo{problems: map[string]*model.Problem{problem.ID: problem}, latest: problem}
	solves := &fakeSolveRepo{solves: map[string]*model.Solve{}}
	cf := &fakeJudge{solved: map[string]bool{}}

	svc := NewVerificationService(members, problems, solves, cf, discardLogger())
	return svc, cf, solves, member, problem
}

func TestVerifyConfirmsAndRecordsSolve(t *testing.T) {
	svc, cf, solves, member, problem := verificationFixture()
	cf.solved["alice_cf/1955C"] = true

	result, err := svc.Verify(context.Background(), member.ID, problem.ID)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, result.State)
	require.NotNil(t, result.SolvedAt)
	assert.Equal(t, 1, solves.inserts)
}

func TestVerifyAlreadyRecordedSkipsJudge(t *testing.T) {
	svc, cf, solves, member, problem := verificationFixture()
	solves.solves[solveKey(member.ID, problem.ID)] = &model.Solve{
		MemberID: member.ID, ProblemID: problem.ID, SolvedAt: time.Now(),
	}

	result, err := svc.Verify(context.Background(), member.ID, problem.ID)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, result.State)
	assert.Equal(t, 0, cf.calls)
	assert.Equal(t, 0, solves.inserts)
}

func TestVerifyNotYetSolved(t *testing.T) {
	svc, _, solves, member, problem := verificationFixture()

	result, err := svc.Verify(context.Background(), member.ID, problem.ID)
	require.NoError(t, err)

	assert.Equal(t, StateNotYetSolved, result.State)
	assert.Equal(t, 0, solves.inserts)
}

func TestVerifyJudgeFailure(t *testing.T) {
	svc, cf, solves, member, problem := verificationFixture()
	cf.err = &judge.APIError{Comment: "Call limit exceeded"}

	result, err := svc.Verify(context.Background(), member.ID, problem.ID)
	require.Error(t, err)

	require.NotNil(t, result)
	assert.Equal(t, StateFailed, result.State)
	assert.Contains(t, result.Message, "Call limit exceeded")
	assert.Equal(t, 0, solves.inserts)
}

func TestVerifyAbsorbsConcurrentDuplicate(t *testing.T) {
	svc, cf, solves, member, problem := verificationFixture()
	cf.solved["alice_cf/1955C"] = true
	solves.insertErr = fmt.Errorf("duplicate key: %w", common.ErrConflict)

	result, err := svc.Verify(context.Background(), member.ID, problem.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, result.State)
}

func TestVerifyUnknownProblem(t *testing.T) {
	svc, _, _, member, _ := verificationFixture()

	_, err := svc.Verify(context.Background(), member.ID, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCheckAllMembersSweep(t *testing.T) {
	svc, cf, solves, _, problem := verificationFixture()

	bob := &model.Member{ID: "m2", Name: "Bob", CFHandle: "bob_cf", Status: model.StatusApproved}
	pending := &model.Member{ID: "m3", Name: "Eve", CFHandle: "eve_cf", Status: model.StatusPending}
	repo := svc.memberRepo.(*fakeMemberRepo)
	repo.members[bob.ID] = bob
	repo.members[pending.ID] = pending

	cf.solved["alice_cf/1955C"] = true

	result, err := svc.CheckAllMembers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, problem.ID, result.Problem.ID)
	assert.Len(t, result.Results, 2) // pending member excluded

	byHandle := map[string]bool{}
	for _, r := range result.Results {
		byHandle[r.CFHandle] = r.Solved
	}
	assert.True(t, byHandle["alice_cf"])
	assert.False(t, byHandle["eve_cf"])
	assert.False(t, byHandle["bob_cf"])
	assert.Equal(t, 1, solves.inserts)
}

func TestCheckAllMembersSurvivesJudgeError(t *testing.T) {
	svc, cf, _, _, _ := verificationFixture()
	cf.err = errors.New("network down")

	result, err := svc.CheckAllMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Solved)
}

func TestCheckAllMembersNoPOTD(t *testing.T) {
	svc, _, _, _, _ := verificationFixture()
	svc.problemRepo.(*fakeProblemRepo).latest = nil

	_, err := svc.CheckAllMembers(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
