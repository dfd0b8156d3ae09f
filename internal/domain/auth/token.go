package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin    = "ADMIN"
	RoleEmployer = "EMPLOYER"
	RoleTalent   = "TALENT"
)

// Claims is the token payload issued by the identity service. Marketplace
// accounts carry at most one employer and one talent profile.
type Claims struct {
	UserID     string `json:"uid"`
	EmployerID string `json:"eid"`
	EmployeeID string `json:"tid"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// UserContext is the authenticated caller as seen by handlers.
type UserContext struct {
	UserID     string
	EmployerID string
	EmployeeID string
	Role       string
}

func (u UserContext) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanActFor reports whether the caller may operate on the given employer's
// payroll data. Admins may act for any employer.
func (u UserContext) CanActFor(employerID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleEmployer && u.EmployerID == employerID
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
