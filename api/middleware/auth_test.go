package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgAuth "github.com/sheltersync/sheltersync-backend/pkg/auth"
	"github.com/sheltersync/sheltersync-backend/pkg/config"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	"github.com/sheltersync/sheltersync-backend/pkg/types"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "sheltersync",
	ExpirationMinutes: 15,
}

func mintTestToken(t *testing.T, userID uuid.UUID, username string, role enums.StaffRole, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTCfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: username,
		Role:     role,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

type fakeSessionChecker struct {
	present bool
	err     error
	seen    string
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	f.seen = accessID
	return f.present, f.err
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWTCfg, nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler should not run without credentials")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/residents", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 but got %d", w.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	handler := Auth(testJWTCfg, nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/residents", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 but got %d", w.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	jti := uuid.NewString()
	token := mintTestToken(t, userID, "jordan", enums.StaffRoleAdmin, jti)

	var gotUser, gotRole, gotUsername, gotAccess string
	handler := Auth(testJWTCfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotUsername = UsernameFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/residents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user id %s but got %s", userID, gotUser)
	}
	if gotRole != string(enums.StaffRoleAdmin) {
		t.Fatalf("expected admin role but got %s", gotRole)
	}
	if gotUsername != "jordan" {
		t.Fatalf("expected username jordan but got %s", gotUsername)
	}
	if gotAccess != jti {
		t.Fatalf("expected access id %s but got %s", jti, gotAccess)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, uuid.New(), "jordan", enums.StaffRoleStaff, uuid.NewString())
	checker := &fakeSessionChecker{present: false}

	handler := Auth(testJWTCfg, checker, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler should not run after logout")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/residents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 but got %d", w.Code)
	}
	if checker.seen == "" {
		t.Fatalf("expected the session checker to receive the access id")
	}
}

func TestAuthAllowsLiveSession(t *testing.T) {
	jti := uuid.NewString()
	token := mintTestToken(t, uuid.New(), "jordan", enums.StaffRoleStaff, jti)
	checker := &fakeSessionChecker{present: true}

	handler := Auth(testJWTCfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/residents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
	if checker.seen != jti {
		t.Fatalf("expected session lookup for %s but got %s", jti, checker.seen)
	}
}

func TestRequireRoleBlocksMismatch(t *testing.T) {
	handler := RequireRole(string(enums.StaffRoleAdmin), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler should not run for staff role")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.StaffRoleStaff)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 but got %d", w.Code)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != "FORBIDDEN" {
		t.Fatalf("unexpected error code %s", body.Error.Code)
	}
}
