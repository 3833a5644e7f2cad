package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavehub/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Identity{
		UserID: "u1",
		Email:  "u1@example.com",
		Roles:  []string{auth.RoleAdmin},
	}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || !user.IsAdmin() {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddlewareMissingTokenRejected(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareBadTokenRejected(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	employee := httptest.NewRequest(http.MethodGet, "/", nil)
	employee = employee.WithContext(WithUser(employee.Context(), auth.Identity{UserID: "u1", Roles: []string{auth.RoleEmployee}}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, employee)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/", nil)
	admin = admin.WithContext(WithUser(admin.Context(), auth.Identity{UserID: "u2", Roles: []string{auth.RoleAdmin}}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, admin)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", rec.Code)
	}
}

func TestOwnDataBlocksOtherUsers(t *testing.T) {
	handler := OwnData(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/?user_id=other", nil)
	req = req.WithContext(WithUser(req.Context(), auth.Identity{UserID: "u1", Roles: []string{auth.RoleEmployee}}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOwnDataAllowsAdminAndSelf(t *testing.T) {
	handler := OwnData(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	self := httptest.NewRequest(http.MethodGet, "/?user_id=u1", nil)
	self = self.WithContext(WithUser(self.Context(), auth.Identity{UserID: "u1", Roles: []string{auth.RoleEmployee}}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, self)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for self, got %d", rec.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/?user_id=other", nil)
	admin = admin.WithContext(WithUser(admin.Context(), auth.Identity{UserID: "u2", Roles: []string{auth.RoleAdmin}}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, admin)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", rec.Code)
	}
}
