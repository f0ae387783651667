package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleet-dispatch/internal/auth/domain"
	"fleet-dispatch/internal/auth/repo"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/validation"
)

type AuthService struct {
	repo       *repo.AuthRepo
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

func NewAuthService(r *repo.AuthRepo, jwtManager *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{repo: r, jwtManager: jwtManager, logger: log}
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	instance := "AuthService.Register"
	start := time.Now()

	s.logger.Info(instance, fmt.Sprintf("attempting to register new user [email=%s, role=%s]", req.Email, req.Role))

	if req.Role != middleware.RoleAdmin && req.Role != middleware.RoleDriver {
		return nil, errors.New("role must be admin or driver")
	}
	if strings.TrimSpace(req.Name) == "" || !strings.Contains(req.Email, "@") {
		return nil, errors.New("name and a valid email are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if req.Phone != "" && !validation.ValidContact(req.Phone) {
		return nil, errors.New("phone must be 10 digits")
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		s.logger.Error(instance, fmt.Errorf("failed to check existing user: %w", err))
		return nil, err
	}
	if existing != nil {
		s.logger.Warn(instance, fmt.Sprintf("user with email %s already exists", req.Email))
		return nil, fmt.Errorf("user with email %s already exists", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(instance, fmt.Errorf("failed to hash password: %w", err))
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error(instance, fmt.Errorf("failed to create user in DB: %w", err))
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("user registered successfully [user_id=%s, email=%s]", user.ID, user.Email))
	s.logger.Info(instance, fmt.Sprintf("registration completed in %dms", time.Since(start).Milliseconds()))

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	instance := "AuthService.Login"
	start := time.Now()

	s.logger.Info(instance, fmt.Sprintf("user attempting login [email=%s]", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			s.logger.Warn(instance, fmt.Sprintf("login failed: user not registered [email=%s]", email))
			return "", nil, errors.New("user not registered")
		}
		s.logger.Error(instance, fmt.Errorf("failed to query user: %w", err))
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("invalid password for user [email=%s]", email))
		return "", nil, errors.New("invalid password")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Role, user.Name)
	if err != nil {
		s.logger.Error(instance, fmt.Errorf("failed to generate token: %w", err))
		return "", nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("user login successful [user_id=%s, role=%s]", user.ID, user.Role))
	s.logger.Info(instance, fmt.Sprintf("login completed in %dms", time.Since(start).Milliseconds()))

	return token, user, nil
}

// SavePushToken stores the device token duty assignments are pushed to.
func (s *AuthService) SavePushToken(ctx context.Context, userID, token string) error {
	instance := "AuthService.SavePushToken"

	if strings.TrimSpace(token) == "" {
		return errors.New("push token is required")
	}
	if err := s.repo.SavePushToken(ctx, userID, token); err != nil {
		s.logger.Error(instance, err)
		return err
	}

	s.logger.OK(instance, "push token saved for user "+userID)
	return nil
}
