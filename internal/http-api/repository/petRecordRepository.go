package repository

import (
	"context"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type PetRecordRepository interface {
	Create(ctx context.Context, record *models.PetRecord) error
	GetByPet(ctx context.Context, petID int64) ([]models.PetRecord, error)
	GetByID(ctx context.Context, recordID int64) (*models.PetRecord, error)
	Update(ctx context.Context, record *models.PetRecord) error
	Delete(ctx context.Context, recordID int64) error
	GetAll(ctx context.Context) ([]models.PetRecord, error)
}

type petRecordRepository struct {
	db *gorm.DB
}

func NewPetRecordRepository(db *gorm.DB) PetRecordRepository {
	return &petRecordRepository{db: db}
}

func (r *petRecordRepository) Create(ctx context.Context, record *models.PetRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *petRecordRepository) GetByPet(ctx context.Context, petID int64) ([]models.PetRecord, error) {
	var records []models.PetRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *petRecordRepository) GetByID(ctx context.Context, recordID int64) (*models.PetRecord, error) {
	var record models.PetRecord
	err := r.db.WithContext(ctx).Where("record_id = ?", recordID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *petRecordRepository) Update(ctx context.Context, record *models.PetRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *petRecordRepository) Delete(ctx context.Context, recordID int64) error {
	result := r.db.WithContext(ctx).Where("record_id = ?", recordID).Delete(&models.PetRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetAll lists every record with its pet and the pet's owner, newest first.
func (r *petRecordRepository) GetAll(ctx context.Context) ([]models.PetRecord, error) {
	var records []models.PetRecord
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Pet.User").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
