package service

import (
	"context"
	"errors"
	"fmt"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo   repository.UserRepository
	tokens     security.TokenManager
	isAdmin    func(email string) bool
	bcryptCost int
}

// NewAuthService wires registration, login and bearer authentication.
// isAdmin decides which accounts receive the administrator role.
func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, isAdmin func(email string) bool, bcryptCost int) AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		isAdmin:    isAdmin,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	logger.EnterMethod("authService.Register", "email", input.Email)

	user, err := createUser(ctx, s.userRepo, input, s.bcryptCost)
	if err != nil {
		logger.ExitMethodWithError("authService.Register", err, IsExpected(err), "email", input.Email)
		return nil, err
	}

	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err, IsExpected(err), "email", email)
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, true, "email", email)
		return "", nil, ErrInvalidCredentials
	}

	roles := []string{string(user.Role)}
	if s.isAdmin(user.Email) {
		roles = append(roles, security.RoleAdmin)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, roles)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, false, "userID", user.ID)
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return token, user, nil
}

// Authenticate resolves a bearer token to the caller. Tokens of deleted
// users are rejected.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
		}
		return nil, err
	}

	return &domain.Principal{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		IsAdmin: claims.HasRole(security.RoleAdmin),
	}, nil
}
