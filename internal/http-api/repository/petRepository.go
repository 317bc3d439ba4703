package repository

import (
	"context"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByUser(ctx context.Context, userID string) ([]models.Pet, error)
	GetByID(ctx context.Context, petID int64) (*models.Pet, error)
}

type petRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

// GetByUser lists a user's pets ordered by name
func (r *petRepository) GetByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pet_name ASC").
		Find(&pets).Error
	return pets, err
}

func (r *petRepository) GetByID(ctx context.Context, petID int64) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.WithContext(ctx).Where("pet_id = ?", petID).First(&pet).Error
	if err != nil {
		return nil, err
	}
	return &pet, nil
}
