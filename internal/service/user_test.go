package service_test

import (
	"context"
	"testing"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_GetAndFind(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	svc := service.NewUserService(repo, bcrypt.MinCost)

	repo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Ravi"}, nil)
	repo.On("GetByID", ctx, int32(2)).Return(nil, repository.ErrNotFound)
	repo.On("GetByEmail", ctx, "nobody@farmtap.test").Return(nil, repository.ErrNotFound)

	u, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", u.Name)

	_, err = svc.GetUser(ctx, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.FindByEmail(ctx, "nobody@farmtap.test")
	assert.ErrorIs(t, err, service.ErrNotFound)

	u, err = svc.GetProfile(ctx, farmer)
	require.NoError(t, err)
	assert.Equal(t, int32(1), u.ID)
}

func TestUserService_SaveUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	svc := service.NewUserService(repo, bcrypt.MinCost)

	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.UserRoleOwner && u.PasswordHash != "pass123"
	})).Return(nil)

	u, err := svc.SaveUser(ctx, service.RegisterInput{Email: "o@farmtap.test", Password: "pass123", Name: "O", Role: "OWNER"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleOwner, u.Role)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Only profile fields change", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo, bcrypt.MinCost)
		stored := &domain.User{
			ID: 1, Email: "farmer@farmtap.test", PasswordHash: "hash", Name: "Old",
			Role: domain.UserRoleFarmer, IDDocumentNumber: "ID-1",
		}
		repo.On("GetByID", ctx, int32(1)).Return(stored, nil)
		repo.On("UpdateProfile", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		u, err := svc.UpdateProfile(ctx, farmer, domain.ProfileUpdate{Name: "New", District: "Meerut", PostalCode: "250001"})
		require.NoError(t, err)
		assert.Equal(t, "New", u.Name)
		assert.Equal(t, "Meerut", u.District)
		assert.Equal(t, "farmer@farmtap.test", u.Email)
		assert.Equal(t, "hash", u.PasswordHash)
		assert.Equal(t, domain.UserRoleFarmer, u.Role)
		assert.Equal(t, "ID-1", u.IDDocumentNumber)
	})

	t.Run("Name required", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepo), bcrypt.MinCost)
		_, err := svc.UpdateProfile(ctx, farmer, domain.ProfileUpdate{})
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepo), bcrypt.MinCost)
		_, err := svc.UpdateProfile(ctx, nil, domain.ProfileUpdate{Name: "X"})
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	svc := service.NewUserService(repo, bcrypt.MinCost)

	repo.On("Delete", ctx, int32(1)).Return(nil)
	repo.On("Delete", ctx, int32(2)).Return(repository.ErrNotFound)

	assert.NoError(t, svc.DeleteUser(ctx, 1))
	assert.ErrorIs(t, svc.DeleteUser(ctx, 2), service.ErrNotFound)
}
