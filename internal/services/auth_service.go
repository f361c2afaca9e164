package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles operator login
type AuthServiceImpl struct {
	operatorRepo repositories.OperatorRepository
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(operatorRepo repositories.OperatorRepository, jwtSecret string, tokenTTL time.Duration) *AuthServiceImpl {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthServiceImpl{
		operatorRepo: operatorRepo,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the password against the stored hash and issues a token
func (s *AuthServiceImpl) Login(ctx context.Context, req models.LoginRequest) (string, *models.Operator, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	op, err := s.operatorRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrOperatorNotFound) {
			slog.Warn("Login attempt for unknown operator", "email", email)
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, storeErr(err, "find operator")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(req.Password)); err != nil {
		slog.Warn("Login attempt with wrong password", "email", email)
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := jwt.Issue(s.jwtSecret, op.ID, op.Email, op.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, op, nil
}

// SeedOperator creates the bootstrap operator on first start
func (s *AuthServiceImpl) SeedOperator(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("%w: operator email and password are required", models.ErrInvalidArgument)
	}

	_, err := s.operatorRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrOperatorNotFound) {
		return storeErr(err, "find operator")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	op := &models.Operator{
		ID:       utils.NewID(),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleOperator,
	}
	if err := s.operatorRepo.Create(ctx, op); err != nil {
		return storeErr(err, "create operator")
	}
	slog.Info("Operator seeded", "email", email)
	return nil
}
