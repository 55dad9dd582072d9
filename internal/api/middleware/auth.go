package middleware

import (
	"context"
	"net/http"
	"strings"

	"algoclub/internal/common"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	MemberIDCtxKey     contextKey = "memberID"
	MemberRoleCtxKey   contextKey = "memberRole"
	MemberStatusCtxKey contextKey = "memberStatus"
)

func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		memberID, err := security.GetMemberIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		role, err := security.GetRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		status, err := security.GetStatusFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), MemberIDCtxKey, memberID)
		ctx = context.WithValue(ctx, MemberRoleCtxKey, model.Role(role))
		ctx = context.WithValue(ctx, MemberStatusCtxKey, model.Status(status))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ApprovedOnly admits approved members and admins. The approval status in
// the token goes stale the moment an admin approves the member, so this
// checks the directory rather than the claim.
func ApprovedOnly(members repository.MemberRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID, ok := GetMemberIDFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
				return
			}
			member, err := members.FindByID(r.Context(), memberID)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Not authorized, member not found")
				return
			}
			if member.Status != model.StatusApproved && !member.Role.IsAdmin() {
				common.RespondWithError(w, http.StatusForbidden, "Account pending approval")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRoleFromContext(r.Context())
		if !ok || !role.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HeadAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRoleFromContext(r.Context())
		if !ok || role != model.RoleHeadAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Head admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get member ID from context
func GetMemberIDFromContext(ctx context.Context) (string, bool) {
	memberID, ok := ctx.Value(MemberIDCtxKey).(string)
	return memberID, ok
}

// Helper to get role from context
func GetRoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(MemberRoleCtxKey).(model.Role)
	return role, ok
}
