package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"facilitydesk/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(allowQuery bool) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Auth(secret, allowQuery))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.UserID(c)})
	})
	return r
}

func TestIssueAndParseToken(t *testing.T) {
	tok, err := middleware.IssueToken(secret, 42, time.Hour)
	require.NoError(t, err)

	id, err := middleware.ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = middleware.ParseToken([]byte("other"), tok)
	assert.Error(t, err)
}

func TestParseToken_SubjectClaims(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return s
	}

	id, err := middleware.ParseToken(secret, sign(jwt.MapClaims{"sub": "7"}))
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = middleware.ParseToken(secret, sign(jwt.MapClaims{"sub": "anon-uuid"}))
	assert.ErrorIs(t, err, middleware.ErrMissingSubject)

	_, err = middleware.ParseToken(secret, sign(jwt.MapClaims{"id": 1.5}))
	assert.ErrorIs(t, err, middleware.ErrMissingSubject)

	_, err = middleware.ParseToken(secret, sign(jwt.MapClaims{"id": 3, "exp": time.Now().Add(-time.Minute).Unix()}))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAuth(t *testing.T) {
	tok, err := middleware.IssueToken(secret, 5, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		allowQuery bool
		header     string
		query      string
		wantStatus int
	}{
		{"bearer header", false, "Bearer " + tok, "", http.StatusOK},
		{"lowercase scheme", false, "bearer " + tok, "", http.StatusOK},
		{"missing", false, "", "", http.StatusUnauthorized},
		{"garbage", false, "Bearer nope", "", http.StatusUnauthorized},
		{"query refused", false, "", "?token=" + tok, http.StatusUnauthorized},
		{"query allowed", true, "", "?token=" + tok, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newRouter(tt.allowQuery).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id": 5}`, w.Body.String())
			}
		})
	}
}
