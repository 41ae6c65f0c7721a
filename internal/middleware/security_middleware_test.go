package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockmaster/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", AuthMiddleware(issuer))
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": Session(c), "operator": Operator(c)})
	})
	api.GET("/admin", RequireRole("Admin", "Manager"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)
	token, _, err := issuer.GenerateToken("admin@example.com", "Admin User", "Admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/api/whoami", tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := get(r, "/api/whoami", "Bearer "+token)
	assert.JSONEq(t, `{"session":"admin@example.com","operator":"Admin User"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)

	for role, want := range map[string]int{
		"Admin":   http.StatusNoContent,
		"Manager": http.StatusNoContent,
		"Staff":   http.StatusForbidden,
	} {
		token, _, err := issuer.GenerateToken("x@example.com", "X", role)
		require.NoError(t, err)
		assert.Equal(t, want, get(r, "/api/admin", "Bearer "+token).Code, role)
	}
}
