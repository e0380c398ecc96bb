package repository

import (
	"context"

	"github.com/offermat/offermat/internal/domain"
	"gorm.io/gorm"
)

// BusinessCardRepository handles the singleton contact record
type BusinessCardRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

// NewBusinessCardRepository creates a new business card repository instance
func NewBusinessCardRepository(db *gorm.DB, retry RetryPolicy) *BusinessCardRepository {
	return &BusinessCardRepository{db: db, retry: retry}
}

// Get returns the business card, or nil when none has been saved yet
func (r *BusinessCardRepository) Get(ctx context.Context) (*domain.BusinessCard, error) {
	var card domain.BusinessCard
	err := r.db.WithContext(ctx).Order("created_at").First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// Save creates the record on first save and upserts it in place thereafter
func (r *BusinessCardRepository) Save(ctx context.Context, card *domain.BusinessCard) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		existing, err := r.Get(ctx)
		if err != nil {
			return err
		}
		if existing == nil {
			return r.db.WithContext(ctx).Create(card).Error
		}
		existing.Company = card.Company
		existing.FullName = card.FullName
		existing.Phone = card.Phone
		existing.Email = card.Email
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return err
		}
		*card = *existing
		return nil
	})
}
