package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"algoclub/internal/common"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	memberRepo repository.MemberRepository
}

func NewAuthService(memberRepo repository.MemberRepository) *AuthService {
	return &AuthService{memberRepo: memberRepo}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	CFHandle string `json:"cf_handle"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Member *model.Member `json:"member"`
	Token  string        `json:"token"`
}

// Register creates a pending member. New members cannot use the portal until
// an admin approves them.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.CFHandle = strings.TrimSpace(req.CFHandle)

	if req.Name == "" || req.Email == "" || req.Password == "" || req.CFHandle == "" {
		return nil, fmt.Errorf("name, email, password and cf_handle are required: %w", common.ErrBadRequest)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", common.ErrValidation)
	}

	// The unique constraints are the real guarantee; pre-checking the handle
	// separately lets us return a distinct message for it.
	if _, err := s.memberRepo.FindByHandle(ctx, req.CFHandle); err == nil {
		return nil, fmt.Errorf("codeforces handle already registered: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check handle: %w", err)
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
		Role:           model.RoleMember,
		Status:         model.StatusPending,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		// Repo returns common.ErrConflict on duplicate email/handle
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	token, err := security.GenerateToken(member.ID, string(member.Role), string(member.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	member.HashedPassword = ""
	return &AuthResponse{Member: member, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	member, err := s.memberRepo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, member.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(member.ID, string(member.Role), string(member.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	member.HashedPassword = ""
	return &AuthResponse{Member: member, Token: token}, nil
}

// Me returns the authenticated member's own record.
func (s *AuthService) Me(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	member.HashedPassword = ""
	return member, nil
}
