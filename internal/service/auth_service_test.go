package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T, policy config.PasswordPolicyConfig) (*AuthService, repository.AdminRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret"
	cfg.JWT.ExpireHours = 2
	cfg.Security.PasswordPolicy = policy

	adminRepo := repository.NewAdminRepository(db)
	return NewAuthService(cfg, adminRepo), adminRepo
}

func createTestAdmin(t *testing.T, svc *AuthService, repo repository.AdminRepository, username, password string) *models.Admin {
	t.Helper()

	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestAuthServiceLoginIssuesParsableToken(t *testing.T) {
	svc, repo := setupAuthServiceTest(t, config.PasswordPolicyConfig{})
	createTestAdmin(t, svc, repo, "operator", "correct-horse-battery")

	admin, token, expiresAt, err := svc.Login("operator", "correct-horse-battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("token should not be empty")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt should be in the future, got %v", expiresAt)
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("last login at should be set")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("claims admin id want %d got %d", admin.ID, claims.AdminID)
	}
	if claims.Username != "operator" {
		t.Fatalf("claims username want operator got %s", claims.Username)
	}
	if claims.TokenVersion != admin.TokenVersion {
		t.Fatalf("claims token version want %d got %d", admin.TokenVersion, claims.TokenVersion)
	}
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := setupAuthServiceTest(t, config.PasswordPolicyConfig{})
	createTestAdmin(t, svc, repo, "operator", "correct-horse-battery")

	if _, _, _, err := svc.Login("operator", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "correct-horse-battery"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
}

func TestAuthServiceParseJWTRejectsForeignSecret(t *testing.T) {
	svc, repo := setupAuthServiceTest(t, config.PasswordPolicyConfig{})
	admin := createTestAdmin(t, svc, repo, "operator", "correct-horse-battery")

	token, _, err := svc.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}

	other, _ := setupAuthServiceTest(t, config.PasswordPolicyConfig{})
	other.cfg.JWT.SecretKey = "another-secret"
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}
	svc, repo := setupAuthServiceTest(t, policy)
	admin := createTestAdmin(t, svc, repo, "operator", "initial-pass-1")

	if err := svc.ChangePassword(admin.ID, "wrong-old", "renewed-pass-2"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "initial-pass-1", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak new password want ErrWeakPassword got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "initial-pass-1", "renewed-pass-2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated, err := repo.GetByID(admin.ID)
	if err != nil {
		t.Fatalf("reload admin failed: %v", err)
	}
	if updated.TokenVersion != admin.TokenVersion+1 {
		t.Fatalf("token version want %d got %d", admin.TokenVersion+1, updated.TokenVersion)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before should be set")
	}
	if err := svc.VerifyPassword(updated.PasswordHash, "renewed-pass-2"); err != nil {
		t.Fatalf("new password should verify: %v", err)
	}
	if err := svc.VerifyPassword(updated.PasswordHash, "initial-pass-1"); err == nil {
		t.Fatalf("old password should no longer verify")
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantErr  bool
	}{
		{name: "empty policy accepts anything", policy: config.PasswordPolicyConfig{}, password: "x"},
		{name: "min length ok", policy: config.PasswordPolicyConfig{MinLength: 8}, password: "abcdefgh"},
		{name: "min length short", policy: config.PasswordPolicyConfig{MinLength: 8}, password: "abcdefg", wantErr: true},
		{name: "require upper missing", policy: config.PasswordPolicyConfig{RequireUpper: true}, password: "lower1!", wantErr: true},
		{name: "require number missing", policy: config.PasswordPolicyConfig{RequireNumber: true}, password: "NoDigits!", wantErr: true},
		{name: "full policy ok", policy: config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireLower: true, RequireNumber: true, RequireSpecial: true}, password: "Str0ng-Pass"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password)
			if tc.wantErr {
				if !errors.Is(err, ErrWeakPassword) {
					t.Fatalf("want ErrWeakPassword got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
