package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

type accountsStub struct {
	active bool
	calls  int
}

func (a *accountsStub) IsActive(context.Context, int64, models.Role) (bool, error) {
	a.calls++
	return a.active, nil
}

type memoryStatus map[string]bool

func (m memoryStatus) Get(_ context.Context, role string, id int64) (bool, bool, error) {
	v, ok := m[role]
	return v, ok, nil
}

func (m memoryStatus) Set(_ context.Context, role string, _ int64, active bool) error {
	m[role] = active
	return nil
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test",
	})
}

func protectedRouter(m *AuthMiddleware, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func tokenFor(t *testing.T, jwt *auth.JWTService, id int64, role models.Role) string {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(auth.Principal{ID: id, Role: string(role)})
	require.NoError(t, err)
	return pair.AccessToken
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	jwt := newTestJWT()
	r := protectedRouter(NewAuthMiddleware(jwt, nil, nil), models.RoleHOD, models.RoleAdmin)
	token := tokenFor(t, jwt, 5, models.RoleHOD)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"role":"HOD"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, get(r, token).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not.a.jwt").Code)

	student := tokenFor(t, jwt, 9, models.RoleStudent)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+student).Code)
}

func TestJWTAuth_DisabledAccount(t *testing.T) {
	jwt := newTestJWT()
	accounts := &accountsStub{active: false}
	cache := memoryStatus{}
	r := protectedRouter(NewAuthMiddleware(jwt, accounts, cache), models.RoleHOD)
	token := tokenFor(t, jwt, 5, models.RoleHOD)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_010")

	get(r, "Bearer "+token)
	assert.Equal(t, 1, accounts.calls)
}
