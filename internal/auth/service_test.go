package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgAuth "github.com/sheltersync/sheltersync-backend/pkg/auth"
	"github.com/sheltersync/sheltersync-backend/pkg/auth/session"
	"github.com/sheltersync/sheltersync-backend/pkg/config"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
	"github.com/sheltersync/sheltersync-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "sheltersync",
	ExpirationMinutes: 15,
}

var testPinCfg = config.PinConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeStaffRepo struct {
	account   *models.StaffAccount
	lastLogin *time.Time
}

func (f *fakeStaffRepo) FindByUsername(ctx context.Context, username string) (*models.StaffAccount, error) {
	if f.account != nil && f.account.Username == username {
		copied := *f.account
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStaffRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin = &at
	return nil
}

type fakeSessionManager struct {
	generated  []string
	revoked    []string
	rotateErr  error
	rotatedOld string
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	f.rotatedOld = oldAccessID
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func staffAccount(t *testing.T, username, pin string) *models.StaffAccount {
	t.Helper()
	hash, err := security.HashPIN(pin, testPinCfg)
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	return &models.StaffAccount{
		ID:       uuid.New(),
		Username: username,
		PinHash:  hash,
		Role:     enums.StaffRoleStaff,
		Name:     "Pat Reyes",
	}
}

func newAuthService(t *testing.T, repo *fakeStaffRepo, sessions *fakeSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		StaffRepo:      repo,
		SessionManager: sessions,
		JWTConfig:      testJWTCfg,
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := &fakeStaffRepo{account: staffAccount(t, "pat", "4321")}
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "pat", PIN: "4321"})
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.Staff == nil || resp.Staff.Username != "pat" {
		t.Fatalf("unexpected staff payload: %+v", resp.Staff)
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions.generated))
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if claims.Username != "pat" || claims.Role != enums.StaffRoleStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != sessions.generated[0] {
		t.Fatal("expected jti to match the stored session")
	}
}

func TestLoginRejectsWrongPin(t *testing.T) {
	repo := &fakeStaffRepo{account: staffAccount(t, "pat", "4321")}
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "pat", PIN: "9999"})
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic message, got %q", typed.Message())
	}
}

func TestLoginRejectsUnknownUsernameWithSameMessage(t *testing.T) {
	svc := newAuthService(t, &fakeStaffRepo{}, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", PIN: "4321"})
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeUnauthorized || typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &fakeStaffRepo{account: staffAccount(t, "pat", "4321")}
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "pat", PIN: "4321"})
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	if sessions.rotatedOld != sessions.generated[0] {
		t.Fatal("expected rotation keyed by the original jti")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if claims.Username != "pat" {
		t.Fatalf("expected claims carried over, got %+v", claims)
	}
	if claims.ID == sessions.generated[0] {
		t.Fatal("expected a fresh jti after rotation")
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	repo := &fakeStaffRepo{account: staffAccount(t, "pat", "4321")}
	sessions := &fakeSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "pat", PIN: "4321"})
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	svc := newAuthService(t, &fakeStaffRepo{}, &fakeSessionManager{})

	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "garbage", RefreshToken: "x"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, &fakeStaffRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("unexpected logout error: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("unexpected revocations: %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank session, got %v", err)
	}
}
