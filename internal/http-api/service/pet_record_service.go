package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("pet record not found")

type PetRecordService interface {
	Create(ctx context.Context, petID int64, serviceType string, data map[string]any) (*models.PetRecord, error)
	GetByPet(ctx context.Context, petID int64) ([]models.PetRecord, error)
	GetAll(ctx context.Context) ([]models.PetRecord, error)
	Update(ctx context.Context, recordID int64, serviceType string, data map[string]any) (*models.PetRecord, error)
	Delete(ctx context.Context, recordID int64) error
}

type petRecordService struct {
	recordRepo    repository.PetRecordRepository
	petRepo       repository.PetRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewPetRecordService(
	recordRepo repository.PetRecordRepository,
	petRepo repository.PetRepository,
	notifications NotificationService,
	logger *slog.Logger,
) PetRecordService {
	return &petRecordService{
		recordRepo:    recordRepo,
		petRepo:       petRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create stores a medical record for a pet and tells the owner about it.
// The notification is best-effort; the record is the primary effect.
func (s *petRecordService) Create(ctx context.Context, petID int64, serviceType string, data map[string]any) (*models.PetRecord, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("load pet: %w", err)
	}

	record := &models.PetRecord{
		PetID:       petID,
		ServiceType: serviceType,
		RecordData:  encodeRecordData(data),
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create pet record: %w", err)
	}

	_, err = s.notifications.NotifyPetRecordAdded(ctx, PetRecordNotificationInput{
		UserID:      pet.UserID,
		PetID:       petID,
		PetName:     pet.PetName,
		ServiceType: serviceType,
		RecordID:    record.ID,
		RecordData:  data,
	})
	if err != nil {
		s.logger.Error("pet record notification failed", "record_id", record.ID, "error", err)
	}

	return record, nil
}

func (s *petRecordService) GetByPet(ctx context.Context, petID int64) ([]models.PetRecord, error) {
	return s.recordRepo.GetByPet(ctx, petID)
}

func (s *petRecordService) GetAll(ctx context.Context) ([]models.PetRecord, error) {
	return s.recordRepo.GetAll(ctx)
}

func (s *petRecordService) Update(ctx context.Context, recordID int64, serviceType string, data map[string]any) (*models.PetRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("load pet record: %w", err)
	}

	if serviceType != "" {
		record.ServiceType = serviceType
	}
	if data != nil {
		record.RecordData = encodeRecordData(data)
	}
	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update pet record: %w", err)
	}
	return record, nil
}

func (s *petRecordService) Delete(ctx context.Context, recordID int64) error {
	if err := s.recordRepo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func encodeRecordData(data map[string]any) string {
	if len(data) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
