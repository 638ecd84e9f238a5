package repository

import (
	"context"

	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// ClientRepository handles billing client lookups.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// FindByID returns a client by its numeric id.
func (r *ClientRepository) FindByID(ctx context.Context, id int) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
