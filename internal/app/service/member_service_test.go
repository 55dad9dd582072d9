package service

import (
	"context"
	"testing"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"
	"algoclub/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberFixture() (*MemberService, *fakeMemberRepo, *fakeJudge) {
	repo := &fakeMemberRepo{members: map[string]*model.Member{}}
	cf := &fakeJudge{userInfos: map[string]*judge.UserInfo{}}
	return NewMemberService(repo, cf, discardLogger()), repo, cf
}

func TestSetStatus(t *testing.T) {
	svc, repo, _ := memberFixture()
	repo.members["m1"] = &model.Member{ID: "m1", Status: model.StatusPending}

	member, err := svc.SetStatus(context.Background(), "m1", model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, member.Status)

	_, err = svc.SetStatus(context.Background(), "m1", model.StatusPending)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.SetStatus(context.Background(), "missing", model.StatusRejected)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAddMemberIsPreApproved(t *testing.T) {
	svc, repo, _ := memberFixture()

	member, err := svc.AddMember(context.Background(), AddMemberRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "hunter22",
		CFHandle: "bob_cf",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, member.Status)
	assert.Equal(t, model.RoleAdmin, member.Role)
	assert.Empty(t, member.HashedPassword)
	assert.NotEmpty(t, repo.members[member.ID].HashedPassword)
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	svc, _, _ := memberFixture()

	_, err := svc.AddMember(context.Background(), AddMemberRequest{
		Name: "Bob", Email: "bob@example.com", Password: "hunter22", CFHandle: "bob_cf",
		Role: model.Role("superuser"),
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestRefreshCFProfile(t *testing.T) {
	svc, repo, cf := memberFixture()
	repo.members["m1"] = &model.Member{ID: "m1", CFHandle: "alice_cf"}
	rank := "expert"
	cf.userInfos["alice_cf"] = &judge.UserInfo{
		Handle: "alice_cf", Rating: intPtr(1700), MaxRating: intPtr(1800), Rank: &rank,
	}

	member := svc.RefreshCFProfile(context.Background(), repo.members["m1"])

	require.NotNil(t, member.CFRating)
	assert.Equal(t, 1700, *member.CFRating)
	require.NotNil(t, repo.members["m1"].CFRating)
	assert.Equal(t, 1700, *repo.members["m1"].CFRating)
}

func TestRefreshCFProfileKeepsStaleCopyOnJudgeFailure(t *testing.T) {
	svc, repo, _ := memberFixture()
	repo.members["m1"] = &model.Member{ID: "m1", CFHandle: "alice_cf", CFRating: intPtr(1500)}

	member := svc.RefreshCFProfile(context.Background(), repo.members["m1"])

	require.NotNil(t, member.CFRating)
	assert.Equal(t, 1500, *member.CFRating)
}

func TestFindApproved(t *testing.T) {
	svc, repo, _ := memberFixture()
	repo.members["ok"] = &model.Member{ID: "ok", Status: model.StatusApproved, Role: model.RoleMember}
	repo.members["pending"] = &model.Member{ID: "pending", Status: model.StatusPending, Role: model.RoleMember}
	repo.members["admin"] = &model.Member{ID: "admin", Status: model.StatusPending, Role: model.RoleAdmin}

	_, err := svc.FindApproved(context.Background(), "ok")
	assert.NoError(t, err)

	_, err = svc.FindApproved(context.Background(), "pending")
	assert.ErrorIs(t, err, common.ErrForbidden)

	// Admins are never locked out by approval status.
	_, err = svc.FindApproved(context.Background(), "admin")
	assert.NoError(t, err)

	_, err = svc.FindApproved(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
