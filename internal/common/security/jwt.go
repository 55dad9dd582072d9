package security

import (
	"errors"
	"time"

	"algoclub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken mints a token carrying the member's identity along with the
// role and approval status so middleware can gate routes without a DB read.
func GenerateToken(memberID, role, status string) (string, error) {
	claims := jwt.MapClaims{
		"member_id": memberID,
		"role":      role,
		"status":    status,
		"exp":       time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":       time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetMemberIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["member_id"].(string)
	if !ok {
		return "", errors.New("member_id claim is missing or not a string")
	}
	return id, nil
}

func GetRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func GetStatusFromClaims(claims jwt.MapClaims) (string, error) {
	status, ok := claims["status"].(string)
	if !ok {
		return "", errors.New("status claim is missing or not a string")
	}
	return status, nil
}
