package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type seen struct {
	tenantId string
	userId   string
	isAdmin  bool
	claim    *utils.JwtCustomClaim
}

func newRouter(s *seen, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	handlers := append(extra, func(c *gin.Context) {
		ctx := c.Request.Context()
		s.tenantId, _ = utils.GetTenantIdFromContext(ctx)
		s.userId, _ = utils.GetUserIdFromContext(ctx)
		s.isAdmin, _ = utils.GetIsAdminFromContext(ctx)
		s.claim = Claims(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/x", handlers...)
	return r
}

func token(t *testing.T, tenantId, role string) string {
	t.Helper()
	tok, err := utils.JwtGenerate("user-1", tenantId, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, authHeader, tenantId string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if tenantId != "" {
		req.Header.Set(tenantHeader, tenantId)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_AcceptsMatchingTenant(t *testing.T) {
	var s seen
	r := newRouter(&s)
	tenantId := uuid.NewString()

	w := do(r, "Bearer "+token(t, tenantId, utils.RoleAdmin), tenantId)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, tenantId, s.tenantId)
	assert.Equal(t, "user-1", s.userId)
	assert.True(t, s.isAdmin)
	require.NotNil(t, s.claim)
	assert.Equal(t, utils.RoleAdmin, s.claim.Role)
	assert.Equal(t, tenantId, s.claim.TenantId)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tenantId := uuid.NewString()
	good := "Bearer " + token(t, tenantId, utils.RoleUser)

	cases := []struct {
		name   string
		auth   string
		tenant string
		status int
	}{
		{"no token", "", tenantId, http.StatusUnauthorized},
		{"not bearer", "Basic abc", tenantId, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", tenantId, http.StatusUnauthorized},
		{"missing tenant header", good, "", http.StatusUnauthorized},
		{"tenant header not a uuid", good, "acme", http.StatusBadRequest},
		{"other tenant", good, uuid.NewString(), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s seen
			w := do(newRouter(&s), tc.auth, tc.tenant)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Empty(t, s.tenantId)
			assert.Nil(t, s.claim)
		})
	}
}

func TestAuthMiddleware_TenantHeaderIsCaseInsensitive(t *testing.T) {
	var s seen
	tenantId := uuid.NewString()
	w := do(newRouter(&s), "Bearer "+token(t, tenantId, utils.RoleUser), strings.ToUpper(tenantId))
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, tenantId, s.tenantId)
	assert.False(t, s.isAdmin)
}

func TestRequireRole(t *testing.T) {
	tenantId := uuid.NewString()
	var s seen
	r := newRouter(&s, RequireRole(utils.RoleAdmin))

	w := do(r, "Bearer "+token(t, tenantId, utils.RoleUser), tenantId)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Bearer "+token(t, tenantId, utils.RoleAdmin), tenantId)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCorrelationId_KeepsOrGenerates(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(CorrelationId())
	r.GET("/x", func(c *gin.Context) {
		got, _ = utils.GetCorrelationIdFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(correlationHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", got)
	assert.Equal(t, "abc-123", w.Header().Get(correlationHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, got, w.Header().Get(correlationHeader))
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	rl := NewRateLimiter(client, 1, time.Minute)

	r := gin.New()
	r.Use(rl.RateLimitMiddleware)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimiter_KeyPrefersTenant(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Request.RemoteAddr = "10.0.0.7:1234"
	assert.Equal(t, "ratelimit:ip:10.0.0.7", rl.key(c))

	c.Request = c.Request.WithContext(utils.SetTenantIdInContext(c.Request.Context(), "t-1"))
	assert.Equal(t, "ratelimit:tenant:t-1", rl.key(c))
}
