// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"facilitydesk/backend/internal/config"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// ContextKeyUserID holds the authenticated user id (uint) in the gin context.
const ContextKeyUserID = "userID"

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrMissingSubject = errors.New("token has no usable subject")
)

// IssueToken signs an HS256 token whose subject is userID.
func IssueToken(secret []byte, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": config.TokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates tokenStr and returns the user id it was issued for.
// The id claim (a number) wins over sub (a numeric string).
func ParseToken(secret []byte, tokenStr string) (uint, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrMissingSubject
	}
	if id, ok := claims["id"].(float64); ok && id >= 1 && id == math.Trunc(id) {
		return uint(id), nil
	}
	if sub, ok := claims["sub"].(string); ok {
		if id, err := strconv.ParseUint(sub, 10, 64); err == nil && id > 0 {
			return uint(id), nil
		}
	}
	return 0, ErrMissingSubject
}

// Auth rejects requests without a valid bearer token. With allowQuery the
// token may also come from ?token=, which browsers need for websockets.
func Auth(secret []byte, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c.GetHeader("Authorization"))
		if tokenStr == "" && allowQuery {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingToken.Error()})
			return
		}

		userID, err := ParseToken(secret, tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 outside Auth.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextKeyUserID)
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
