package repository

import (
	"context"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	GetAll(ctx context.Context) ([]models.Service, error)
	GetByName(ctx context.Context, name string) (*models.Service, error)
	GetByID(ctx context.Context, id int64) (*models.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("service_name").Find(&services).Error
	return services, err
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).Where("service_name = ?", name).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).Where("service_id = ?", id).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}
