package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/models"
	"budget/repository"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Name     string
}

// UserService 用户注册与登录校验
type UserService struct {
	store repository.Store
}

// NewUserService 创建用户服务
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Register 用户名唯一，密码以 bcrypt 保存
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 || len(username) > 50 {
		return nil, invalidInput("用户名长度必须在 3-50 之间")
	}
	if len(in.Password) < 6 {
		return nil, invalidInput("密码至少 6 位")
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: 用户名已存在", ErrConflict)
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
		Email:    strings.TrimSpace(in.Email),
		Name:     strings.TrimSpace(in.Name),
	}
	if user.Name == "" {
		user.Name = username
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验用户名和密码
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get 用户资料
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "用户")
	}
	return user, nil
}
