package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"railbook/internal/domain"
)

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func protectedRouter(secret []byte, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(secret)}, extra...)
	r.GET("/secure", append(chain, func(c *gin.Context) {
		rc, _ := GetAuth(c)
		c.JSON(http.StatusOK, rc)
	})...)
	return r
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, jwt.MapClaims{
		"user_id": 42,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedRouter(secret).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsMissingAndForgedTokens(t *testing.T) {
	secret := []byte("test-secret")
	forged := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"user_id": 42,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, secret, jwt.MapClaims{
		"user_id": 42,
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	cases := map[string]string{
		"no header":     "",
		"forged token":  "Bearer " + forged,
		"expired token": "Bearer " + expired,
		"not bearer":    "Basic abc",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(secret).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireAdminGatesByRole(t *testing.T) {
	secret := []byte("test-secret")
	for role, want := range map[string]int{
		"admin": http.StatusOK,
		"user":  http.StatusForbidden,
	} {
		token := signToken(t, secret, jwt.MapClaims{
			"user_id": 7,
			"role":    role,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protectedRouter(secret, RequireAdmin()).ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %q: expected %d, got %d", role, want, rec.Code)
		}
	}
}

func TestGetAuthMissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if rc, ok := GetAuth(c); ok || rc != (domain.RequestContext{}) {
		t.Fatalf("expected empty identity, got %+v", rc)
	}
}
