package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost}
}

func (s *userService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "user", id)
	}
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fromRepo(err, "user", email)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) SaveUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	logger.EnterMethod("userService.SaveUser", "email", input.Email)

	user, err := createUser(ctx, s.userRepo, input, s.bcryptCost)
	if err != nil {
		logger.ExitMethodWithError("userService.SaveUser", err, IsExpected(err), "email", input.Email)
		return nil, err
	}

	logger.ExitMethod("userService.SaveUser", "userID", user.ID)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int32) error {
	logger.EnterMethod("userService.DeleteUser", "userID", id)

	if err := s.userRepo.Delete(ctx, id); err != nil {
		err = fromRepo(err, "user", id)
		logger.ExitMethodWithError("userService.DeleteUser", err, IsExpected(err), "userID", id)
		return err
	}

	logger.ExitMethod("userService.DeleteUser", "userID", id)
	return nil
}

func (s *userService) GetProfile(ctx context.Context, actor *domain.Principal) (*domain.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return s.GetUser(ctx, actor.UserID)
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.Principal, patch domain.ProfileUpdate) (*domain.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	logger.EnterMethod("userService.UpdateProfile", "userID", actor.UserID)

	if strings.TrimSpace(patch.Name) == "" {
		err := validationError("name is required")
		logger.ExitMethodWithError("userService.UpdateProfile", err, true, "userID", actor.UserID)
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		err = fromRepo(err, "user", actor.UserID)
		logger.ExitMethodWithError("userService.UpdateProfile", err, IsExpected(err), "userID", actor.UserID)
		return nil, err
	}

	patch.Apply(user)
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		err = fromRepo(err, "user", actor.UserID)
		logger.ExitMethodWithError("userService.UpdateProfile", err, IsExpected(err), "userID", actor.UserID)
		return nil, err
	}

	logger.ExitMethod("userService.UpdateProfile", "userID", actor.UserID)
	return user, nil
}

// createUser validates input, hashes the password and stores the account.
// Emails are stored lower-cased.
func createUser(ctx context.Context, repo repository.UserRepository, input RegisterInput, cost int) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return nil, validationError("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, validationError("role must be Farmer or Owner")
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:            email,
		PasswordHash:     string(hash),
		Name:             name,
		Role:             role,
		PhoneNumber:      input.PhoneNumber,
		IDDocumentNumber: input.IDDocumentNumber,
		VillageName:      input.VillageName,
		District:         input.District,
		State:            input.State,
		PostalCode:       input.PostalCode,
		ProfileImageURL:  input.ProfileImageURL,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}
