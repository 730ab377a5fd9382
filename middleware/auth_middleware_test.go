package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/models"
)

type fakeStore struct {
	user *models.User
}

func (f *fakeStore) FindByAccount(_ context.Context, account string) (*models.User, error) {
	if f.user != nil && f.user.Account == account {
		return f.user, nil
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeStore) FindByIDAndToken(_ context.Context, id, token string) (*models.User, error) {
	if f.user != nil && f.user.ID.Hex() == id && f.user.HasToken(token) {
		return f.user, nil
	}
	return nil, auth.ErrUserNotFound
}

func newRouter(strategies *auth.Strategies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/users/login", Login(strategies), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "account": CurrentUser(c).Account})
	})
	r.GET("/users/profile", JWT(strategies), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "token": CurrentToken(c)})
	})
	r.PATCH("/users/extend", JWT(strategies), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/products/all", JWT(strategies), Admin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func setup(t *testing.T, ttl time.Duration, role models.Role) (*gin.Engine, *models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("pw1234")
	require.NoError(t, err)
	user := &models.User{
		ID:       bson.NewObjectID(),
		Account:  "alice",
		Password: hash,
		Role:     role,
	}

	issuer := auth.NewIssuer("secret", ttl)
	token, err := issuer.Issue(user.ID.Hex())
	require.NoError(t, err)
	user.Tokens = []string{token}

	strategies := auth.NewStrategies(&fakeStore{user: user}, issuer)
	return newRouter(strategies), user, token
}

func do(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginStatusMapping(t *testing.T) {
	r, _, _ := setup(t, time.Hour, models.RoleMember)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"success", `{"account":"alice","password":"pw1234"}`, http.StatusOK},
		{"missing fields", `{"account":"alice"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown account", `{"account":"nobody1","password":"pw1234"}`, http.StatusUnauthorized},
		{"wrong password", `{"account":"alice","password":"nope"}`, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/users/login", tc.body, "")
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestJWTStatusMapping(t *testing.T) {
	r, _, token := setup(t, time.Hour, models.RoleMember)

	w := do(r, http.MethodGet, "/users/profile", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/users/profile", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")

	w = do(r, http.MethodGet, "/users/profile", "", "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestJWTExpiredMapping(t *testing.T) {
	r, _, token := setup(t, -time.Minute, models.RoleMember)

	w := do(r, http.MethodGet, "/users/profile", "", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "token expired")

	// Stale token still reaches the extend route.
	w = do(r, http.MethodPatch, "/users/extend", "", token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTRevokedLooksLikeInvalid(t *testing.T) {
	r, user, token := setup(t, time.Hour, models.RoleMember)
	user.Tokens = nil

	w := do(r, http.MethodGet, "/users/profile", "", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	// Revocation is indistinguishable from forgery for the client.
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestAdminGate(t *testing.T) {
	r, _, token := setup(t, time.Hour, models.RoleMember)
	w := do(r, http.MethodGet, "/products/all", "", token)
	require.Equal(t, http.StatusForbidden, w.Code)

	r, _, token = setup(t, time.Hour, models.RoleAdmin)
	w = do(r, http.MethodGet, "/products/all", "", token)
	require.Equal(t, http.StatusOK, w.Code)
}
