package service

import (
	"context"
	"errors"
	"fmt"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrPetNotFound = errors.New("pet not found")

type CreatePetInput struct {
	UserID         string
	PetName        string
	Age            int
	Breed          string
	Gender         string
	MedicalHistory string
}

type PetService interface {
	Create(ctx context.Context, in CreatePetInput) (*models.Pet, error)
	GetByUser(ctx context.Context, userID string) ([]models.Pet, error)
	GetOwned(ctx context.Context, petID int64, requesterID string, isAdmin bool) (*models.Pet, error)
}

type petService struct {
	petRepo repository.PetRepository
}

func NewPetService(petRepo repository.PetRepository) PetService {
	return &petService{petRepo: petRepo}
}

func (s *petService) Create(ctx context.Context, in CreatePetInput) (*models.Pet, error) {
	pet := &models.Pet{
		UserID:         in.UserID,
		PetName:        in.PetName,
		Age:            in.Age,
		Breed:          in.Breed,
		Gender:         in.Gender,
		MedicalHistory: in.MedicalHistory,
	}
	if err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	return pet, nil
}

func (s *petService) GetByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	return s.petRepo.GetByUser(ctx, userID)
}

// GetOwned loads a pet, reporting not-found for pets the requester does not
// own unless they are an admin.
func (s *petService) GetOwned(ctx context.Context, petID int64, requesterID string, isAdmin bool) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	if !isAdmin && pet.UserID != requesterID {
		return nil, ErrPetNotFound
	}
	return pet, nil
}
