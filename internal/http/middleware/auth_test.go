package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"parkingsoft/internal/domain"

	"github.com/gin-gonic/gin"
)

func authTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Protect()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "role": GetUserRole(c)})
	})
	r.GET("/secure", chain...)
	return r
}

func TestProtectRejectsMissingToken(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestProtectAcceptsSignedToken(t *testing.T) {
	token, err := SignToken(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}

	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestRequireRolesBlocksWrongRole(t *testing.T) {
	token, err := SignToken(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}

	r := authTestRouter(RequireRoles(domain.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	token, err := SignToken(1, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}

	r := authTestRouter(RequireRoles(domain.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}
