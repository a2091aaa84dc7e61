package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/storage"
	"farmtap-backend/internal/utils"

	"github.com/google/uuid"
)

// ImageOptions limits equipment image uploads.
type ImageOptions struct {
	AllowedTypes []string
	URLExpiry    time.Duration
}

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	store         storage.StorageInterface
	images        ImageOptions
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository, store storage.StorageInterface, images ImageOptions) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		store:         store,
		images:        images,
	}
}

func (s *equipmentService) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "equipment", id)
	}
	s.resolveImageURL(ctx, e)
	return e, nil
}

func (s *equipmentService) ListAvailable(ctx context.Context) ([]domain.Equipment, error) {
	items, err := s.equipmentRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.resolveImageURL(ctx, &items[i])
	}
	return items, nil
}

func (s *equipmentService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error) {
	items, err := s.equipmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.resolveImageURL(ctx, &items[i])
	}
	return items, nil
}

func (s *equipmentService) AddEquipment(ctx context.Context, actor *domain.Principal, equipment *domain.Equipment) (*domain.Equipment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	logger.EnterMethod("equipmentService.AddEquipment", "ownerID", actor.UserID, "name", equipment.Name)

	equipment.Name = strings.TrimSpace(equipment.Name)
	if equipment.Name == "" {
		err := validationError("name is required")
		logger.ExitMethodWithError("equipmentService.AddEquipment", err, true)
		return nil, err
	}
	if equipment.RentalPricePerDayCents <= 0 || equipment.RentalPricePerDayCents > utils.MaxRentalPricePerDayCents {
		err := validationError("rental price per day must be between 1 and %d cents", utils.MaxRentalPricePerDayCents)
		logger.ExitMethodWithError("equipmentService.AddEquipment", err, true)
		return nil, err
	}

	equipment.ID = 0
	equipment.OwnerID = actor.UserID
	equipment.IsAvailable = true
	equipment.ImageKey = ""

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		err = fromRepo(err, "user", actor.UserID)
		logger.ExitMethodWithError("equipmentService.AddEquipment", err, IsExpected(err))
		return nil, err
	}

	logger.ExitMethod("equipmentService.AddEquipment", "equipmentID", equipment.ID)
	return equipment, nil
}

func (s *equipmentService) RemoveEquipment(ctx context.Context, actor *domain.Principal, id int32) error {
	logger.EnterMethod("equipmentService.RemoveEquipment", "equipmentID", id)

	e, err := s.ownedEquipment(ctx, actor, id, true)
	if err != nil {
		logger.ExitMethodWithError("equipmentService.RemoveEquipment", err, IsExpected(err), "equipmentID", id)
		return err
	}
	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		err = fromRepo(err, "equipment", id)
		logger.ExitMethodWithError("equipmentService.RemoveEquipment", err, IsExpected(err), "equipmentID", id)
		return err
	}
	s.deleteImage(ctx, e.ImageKey)

	logger.ExitMethod("equipmentService.RemoveEquipment", "equipmentID", id)
	return nil
}

func (s *equipmentService) SetAvailability(ctx context.Context, actor *domain.Principal, id int32, available bool) (*domain.Equipment, error) {
	logger.EnterMethod("equipmentService.SetAvailability", "equipmentID", id, "available", available)

	e, err := s.ownedEquipment(ctx, actor, id, true)
	if err != nil {
		logger.ExitMethodWithError("equipmentService.SetAvailability", err, IsExpected(err), "equipmentID", id)
		return nil, err
	}
	if err := s.equipmentRepo.SetAvailability(ctx, id, available); err != nil {
		err = fromRepo(err, "equipment", id)
		logger.ExitMethodWithError("equipmentService.SetAvailability", err, IsExpected(err), "equipmentID", id)
		return nil, err
	}
	e.IsAvailable = available
	s.resolveImageURL(ctx, e)

	logger.ExitMethod("equipmentService.SetAvailability", "equipmentID", id)
	return e, nil
}

func (s *equipmentService) UploadImage(ctx context.Context, actor *domain.Principal, id int32, filename, contentType string, body io.Reader) (*domain.Equipment, error) {
	logger.EnterMethod("equipmentService.UploadImage", "equipmentID", id, "contentType", contentType)

	e, err := s.ownedEquipment(ctx, actor, id, false)
	if err != nil {
		logger.ExitMethodWithError("equipmentService.UploadImage", err, IsExpected(err), "equipmentID", id)
		return nil, err
	}
	if !s.allowedType(contentType) {
		err := validationError("content type %q is not allowed", contentType)
		logger.ExitMethodWithError("equipmentService.UploadImage", err, true, "equipmentID", id)
		return nil, err
	}

	key := fmt.Sprintf("equipment/%d/%s%s", id, uuid.New().String(), imageExtension(filename, contentType))
	if err := s.store.PutObject(ctx, key, contentType, body); err != nil {
		logger.ExitMethodWithError("equipmentService.UploadImage", err, false, "key", key)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	if err := s.equipmentRepo.SetImageKey(ctx, id, key); err != nil {
		s.deleteImage(ctx, key)
		err = fromRepo(err, "equipment", id)
		logger.ExitMethodWithError("equipmentService.UploadImage", err, IsExpected(err), "equipmentID", id)
		return nil, err
	}
	previous := e.ImageKey
	e.ImageKey = key
	e.ImageURL = ""
	s.resolveImageURL(ctx, e)
	if previous != key {
		s.deleteImage(ctx, previous)
	}

	logger.ExitMethod("equipmentService.UploadImage", "equipmentID", id, "key", key)
	return e, nil
}

// resolveImageURL replaces ImageURL with a fresh download URL for uploaded
// images. Equipment without an uploaded image keeps its stored URL.
func (s *equipmentService) resolveImageURL(ctx context.Context, e *domain.Equipment) {
	if e.ImageKey == "" || s.store == nil {
		return
	}
	url, err := s.store.GeneratePresignedDownloadURL(ctx, e.ImageKey, s.images.URLExpiry)
	if err != nil {
		logger.WarnContext(ctx, "Failed to sign equipment image URL", "equipmentID", e.ID, "key", e.ImageKey, "error", err)
		return
	}
	e.ImageURL = url
}

// deleteImage removes an object that is no longer referenced. Failures are
// logged and leave an orphaned object behind.
func (s *equipmentService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.DeleteFile(ctx, key); err != nil {
		logger.WarnContext(ctx, "Failed to delete equipment image", "key", key, "error", err)
	}
}

// ownedEquipment loads the equipment and checks that actor owns it.
// allowAdmin lets administrators act on any equipment.
func (s *equipmentService) ownedEquipment(ctx context.Context, actor *domain.Principal, id int32, allowAdmin bool) (*domain.Equipment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "equipment", id)
	}
	if e.OwnerID != actor.UserID && !(allowAdmin && actor.IsAdmin) {
		return nil, fmt.Errorf("%w: equipment %d belongs to another owner", ErrForbidden, id)
	}
	return e, nil
}

func (s *equipmentService) allowedType(contentType string) bool {
	for _, t := range s.images.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func imageExtension(filename, contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return strings.ToLower(path.Ext(filename))
}
