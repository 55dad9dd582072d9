package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"algoclub/internal/common"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"

	"github.com/google/uuid"
)

// MemberService covers the admin side of the member directory: approval,
// listing, manual member creation, and the cached Codeforces profile.
type MemberService struct {
	memberRepo repository.MemberRepository
	judge      JudgeClient
	logger     *slog.Logger
}

func NewMemberService(memberRepo repository.MemberRepository, judge JudgeClient, logger *slog.Logger) *MemberService {
	return &MemberService{memberRepo: memberRepo, judge: judge, logger: logger}
}

func (s *MemberService) PendingMembers(ctx context.Context) ([]model.Member, error) {
	return s.memberRepo.ListByStatus(ctx, model.StatusPending)
}

func (s *MemberService) AllMembers(ctx context.Context) ([]model.Member, error) {
	return s.memberRepo.ListAll(ctx)
}

// SetStatus approves or rejects a pending member. Only those two target
// states are reachable through the API; "pending" is never set back.
func (s *MemberService) SetStatus(ctx context.Context, memberID string, status model.Status) (*model.Member, error) {
	switch status {
	case model.StatusApproved, model.StatusRejected:
	default:
		return nil, fmt.Errorf("status must be %q or %q: %w",
			model.StatusApproved, model.StatusRejected, common.ErrBadRequest)
	}

	member, err := s.memberRepo.UpdateStatus(ctx, memberID, status)
	if err != nil {
		return nil, err
	}
	member.HashedPassword = ""
	return member, nil
}

type AddMemberRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	CFHandle string     `json:"cf_handle"`
	Role     model.Role `json:"role"`
}

// AddMember creates a pre-approved member directly, head-admin only.
func (s *MemberService) AddMember(ctx context.Context, req AddMemberRequest) (*model.Member, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.CFHandle = strings.TrimSpace(req.CFHandle)

	if req.Name == "" || req.Email == "" || req.Password == "" || req.CFHandle == "" {
		return nil, fmt.Errorf("name, email, password and cf_handle are required: %w", common.ErrBadRequest)
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, common.ErrBadRequest)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &model.Member{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		CFHandle:       req.CFHandle,
		Role:           req.Role,
		Status:         model.StatusApproved, // Manually added members skip approval
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	member.HashedPassword = ""
	return member, nil
}

// RefreshCFProfile pulls the member's current Codeforces profile and stores
// it on the member record. On judge failure the previously cached values
// stay in place and the stale copy is returned.
func (s *MemberService) RefreshCFProfile(ctx context.Context, member *model.Member) *model.Member {
	info, err := s.judge.FetchUserInfo(ctx, member.CFHandle)
	if err != nil {
		s.logger.Warn("could not refresh codeforces profile",
			"handle", member.CFHandle, "err", err)
		return member
	}

	member.CFRating = info.Rating
	member.CFMaxRating = info.MaxRating
	member.CFRank = info.Rank
	if info.Avatar != "" {
		member.CFAvatarURL = &info.Avatar
	}

	if err := s.memberRepo.UpdateCFProfile(ctx, member.ID,
		member.CFRating, member.CFMaxRating, member.CFRank, member.CFAvatarURL); err != nil {
		s.logger.Warn("could not persist codeforces profile",
			"member_id", member.ID, "err", err)
	}
	return member
}

// FindApproved loads a member and confirms they may use the portal.
func (s *MemberService) FindApproved(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	if member.Status != model.StatusApproved && !member.Role.IsAdmin() {
		return nil, fmt.Errorf("account pending approval: %w", common.ErrForbidden)
	}
	member.HashedPassword = ""
	return member, nil
}
