package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jnineawiwii/maquillaje-mac/models"
)

func signToken(t *testing.T, secret string, userID uint, role models.Role, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newProtectedRouter(t *testing.T, roles ...models.Role) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{ValidateToken}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet("user_id"),
			"role":    c.MustGet("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateTokenSetsIdentity(t *testing.T) {
	r := newProtectedRouter(t)
	token := signToken(t, "test-secret", 7, models.RoleCustomer, time.Now().Add(time.Hour))

	w := get(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.UserID != 7 {
		t.Errorf("user_id = %d, want 7", body.UserID)
	}
	if body.Role != "customer" {
		t.Errorf("role = %q, want customer", body.Role)
	}
}

func TestValidateTokenAnonymousRedirect(t *testing.T) {
	r := newProtectedRouter(t)

	w := get(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["redirect"] != "/auth/login" {
		t.Errorf("redirect = %v, want /auth/login", body["redirect"])
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	r := newProtectedRouter(t)
	token := signToken(t, "other-secret", 7, models.RoleCustomer, time.Now().Add(time.Hour))

	if w := get(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("forged token status = %d, want 401", w.Code)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	r := newProtectedRouter(t)
	token := signToken(t, "test-secret", 7, models.RoleCustomer, time.Now().Add(-time.Hour))

	if w := get(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token status = %d, want 401", w.Code)
	}
}

func TestRequireRoleAdmits(t *testing.T) {
	r := newProtectedRouter(t, models.RoleAdmin, models.RoleMasterAdmin)

	admin := signToken(t, "test-secret", 1, models.RoleAdmin, time.Now().Add(time.Hour))
	if w := get(r, admin); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
	master := signToken(t, "test-secret", 2, models.RoleMasterAdmin, time.Now().Add(time.Hour))
	if w := get(r, master); w.Code != http.StatusOK {
		t.Errorf("master_admin status = %d, want 200", w.Code)
	}
}

func TestRequireRoleDeniesCustomer(t *testing.T) {
	r := newProtectedRouter(t, models.RoleAdmin, models.RoleMasterAdmin)

	customer := signToken(t, "test-secret", 3, models.RoleCustomer, time.Now().Add(time.Hour))
	w := get(r, customer)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d, want 403", w.Code)
	}
}

func TestRequireRoleMasterOnly(t *testing.T) {
	r := newProtectedRouter(t, models.RoleMasterAdmin)

	admin := signToken(t, "test-secret", 1, models.RoleAdmin, time.Now().Add(time.Hour))
	if w := get(r, admin); w.Code != http.StatusForbidden {
		t.Errorf("admin on master route status = %d, want 403", w.Code)
	}
}
