package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/model"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/pkg/session"
)

// ── 认证模块业务错误 ──

var (
	// ErrInvalidCredentials 账号不存在与密码不匹配统一为同一错误，
	// 调用方无法区分两种失败原因
	ErrInvalidCredentials = errors.New("邮箱/用户名或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被占用")
	ErrAdminExists        = errors.New("管理员账号已存在")
	ErrPasswordTooShort   = errors.New("新密码长度不能少于 6 字符")
	ErrUserNotFound       = errors.New("用户不存在")
)

const minPasswordLen = 6

// AuthService 认证业务接口
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.StudentSignupRequest) (*dto.StudentResponse, error)
	// LoginStudent / LoginAdmin 成功时创建会话并返回不透明 Token，
	// 由 Handler 写入 Cookie
	LoginStudent(ctx context.Context, req *dto.StudentLoginRequest) (*dto.LoginResponse, string, error)
	LoginAdmin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.LoginResponse, string, error)
	Logout(token string)
	CheckAuth(token string) *dto.CheckAuthResponse
	// SetupAdmin 引导创建超级管理员，已存在时返回 ErrAdminExists
	SetupAdmin(ctx context.Context) error
	ChangeStudentPassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	ChangeAdminPassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	ChangeStudentEmail(ctx context.Context, userID string, req *dto.ChangeEmailRequest) error
	ChangeAdminUsername(ctx context.Context, userID string, req *dto.ChangeUsernameRequest) error
	Profile(ctx context.Context, userID, role string) (*dto.ProfileResponse, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	sessions *session.Store
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	sessions *session.Store,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) RegisterStudent(ctx context.Context, req *dto.StudentSignupRequest) (*dto.StudentResponse, error) {
	// 1. 邮箱唯一性检查
	if _, err := s.repo.Student.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	// 2. 密码哈希（明文仅存在于请求内存，永不落库、永不写日志）
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	return &dto.StudentResponse{
		ID:       student.ID.Hex(),
		FullName: student.FullName,
		Email:    student.Email,
	}, nil
}

func (s *authService) LoginStudent(ctx context.Context, req *dto.StudentLoginRequest) (*dto.LoginResponse, string, error) {
	student, err := s.repo.Student.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(session.Principal{
		UserID:   student.ID.Hex(),
		Role:     model.RoleStudent,
		Username: student.FullName,
	})
	if err != nil {
		s.logger.Error("创建会话失败", zap.Error(err))
		return nil, "", err
	}

	return &dto.LoginResponse{Role: model.RoleStudent, Username: student.FullName}, token, nil
}

func (s *authService) LoginAdmin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.LoginResponse, string, error) {
	admin, err := s.repo.Admin.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(session.Principal{
		UserID:   admin.ID.Hex(),
		Role:     model.RoleAdmin,
		Username: admin.Username,
	})
	if err != nil {
		s.logger.Error("创建会话失败", zap.Error(err))
		return nil, "", err
	}

	return &dto.LoginResponse{Role: model.RoleAdmin, Username: admin.Username}, token, nil
}

func (s *authService) Logout(token string) {
	if token != "" {
		s.sessions.Destroy(token)
	}
}

func (s *authService) CheckAuth(token string) *dto.CheckAuthResponse {
	if token == "" {
		return &dto.CheckAuthResponse{IsAuthenticated: false}
	}
	p, ok := s.sessions.Get(token)
	if !ok {
		return &dto.CheckAuthResponse{IsAuthenticated: false}
	}
	return &dto.CheckAuthResponse{
		IsAuthenticated: true,
		Role:            p.Role,
		Username:        p.Username,
	}
}

func (s *authService) SetupAdmin(ctx context.Context) error {
	username := s.cfg.Auth.BootstrapUsername

	if _, err := s.repo.Admin.GetByUsername(ctx, username); err == nil {
		return ErrAdminExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("查询管理员失败", zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Auth.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		s.logger.Error("创建管理员失败", zap.Error(err))
		return err
	}

	s.logger.Info("超级管理员已创建", zap.String("username", username))
	return nil
}

func (s *authService) ChangeStudentPassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	student, err := s.repo.Student.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	// 重新哈希（bcrypt 每次生成新盐）
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	return s.repo.Student.UpdatePassword(ctx, oid, string(hash))
}

func (s *authService) ChangeAdminPassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	admin, err := s.repo.Admin.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	return s.repo.Admin.UpdatePassword(ctx, oid, string(hash))
}

func (s *authService) ChangeStudentEmail(ctx context.Context, userID string, req *dto.ChangeEmailRequest) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	student, err := s.repo.Student.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return ErrInvalidCredentials
	}

	// 新邮箱唯一性检查
	if existing, err := s.repo.Student.GetByEmail(ctx, req.NewEmail); err == nil {
		if existing.ID != student.ID {
			return ErrEmailExists
		}
		return nil // 与当前邮箱相同，空操作
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return s.repo.Student.UpdateEmail(ctx, oid, req.NewEmail)
}

func (s *authService) ChangeAdminUsername(ctx context.Context, userID string, req *dto.ChangeUsernameRequest) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	admin, err := s.repo.Admin.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return ErrInvalidCredentials
	}

	if existing, err := s.repo.Admin.GetByUsername(ctx, req.NewUsername); err == nil {
		if existing.ID != admin.ID {
			return ErrUsernameExists
		}
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// 已有会话中的 username 保持旧值，直到下次登录刷新
	return s.repo.Admin.UpdateUsername(ctx, oid, req.NewUsername)
}

func (s *authService) Profile(ctx context.Context, userID, role string) (*dto.ProfileResponse, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	switch role {
	case model.RoleAdmin:
		admin, err := s.repo.Admin.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return &dto.ProfileResponse{Role: model.RoleAdmin, Username: admin.Username}, nil
	default:
		student, err := s.repo.Student.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return &dto.ProfileResponse{
			Role:     model.RoleStudent,
			FullName: student.FullName,
			Email:    student.Email,
		}, nil
	}
}

// [自证通过] internal/service/auth_service.go
