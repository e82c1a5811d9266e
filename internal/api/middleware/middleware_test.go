package middleware

import (
	"Atelier/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(r, nil)
	assert.Contains(t, w.Body.String(), "401")

	w = performRequest(r, map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Contains(t, w.Body.String(), "401")
}

func TestAuthOptionalMiddleware(t *testing.T) {
	var gotUserID uint64
	r := gin.New()
	r.Use(AuthOptionalMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		gotUserID = c.GetUint64("user_id")
		c.Status(http.StatusOK)
	})

	// 未登录按游客处理
	w := performRequest(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(0), gotUserID)

	// 带合法 Token 注入 UID
	token, err := security.GenerateToken(42, []string{"student"})
	require.NoError(t, err)
	w = performRequest(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(42), gotUserID)

	// 非法 Token 同游客
	w = performRequest(r, map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(0), gotUserID)
}

func TestCheckRoles(t *testing.T) {
	newRouter := func(roles []string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("roles", roles)
			c.Next()
		})
		r.Use(CheckRoles("admin"))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	w := performRequest(newRouter([]string{"student"}), nil)
	assert.Contains(t, w.Body.String(), "403")

	w = performRequest(newRouter([]string{"student", "admin"}), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "403")
}
