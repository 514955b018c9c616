package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/whoami", JWTAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":  c.GetInt("user_id"),
			"name": c.GetString("user_name"),
		})
	})
	return r
}

func doAuthed(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	r := newAuthRouter()
	token := signToken(t, jwt.MapClaims{
		"uid":  float64(7),
		"name": "jane",
		"exp":  time.Now().Add(72 * time.Hour).Unix(),
	})

	w := doAuthed(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"jane"`)
	assert.Contains(t, w.Body.String(), `"uid":7`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	w := doAuthed(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": float64(7), "name": "jane",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w := doAuthed(newAuthRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A properly signed token that lacks the identity claims must be rejected
// as unauthorized, not blow up the handler.
func TestJWTAuthMalformedClaims(t *testing.T) {
	r := newAuthRouter()
	cases := map[string]jwt.MapClaims{
		"no uid":       {"name": "jane", "exp": time.Now().Add(time.Hour).Unix()},
		"no name":      {"uid": float64(7), "exp": time.Now().Add(time.Hour).Unix()},
		"uid not num":  {"uid": "seven", "name": "jane", "exp": time.Now().Add(time.Hour).Unix()},
		"name not str": {"uid": float64(7), "name": 42, "exp": time.Now().Add(time.Hour).Unix()},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			w := doAuthed(r, signToken(t, claims))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthRenewsNearExpiry(t *testing.T) {
	r := newAuthRouter()

	soon := signToken(t, jwt.MapClaims{
		"uid": float64(7), "name": "jane",
		"exp": time.Now().Add(2 * time.Hour).Unix(),
	})
	w := doAuthed(r, soon)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-New-Token"))

	fresh := signToken(t, jwt.MapClaims{
		"uid": float64(7), "name": "jane",
		"exp": time.Now().Add(6 * 24 * time.Hour).Unix(),
	})
	w = doAuthed(r, fresh)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-New-Token"))
}
