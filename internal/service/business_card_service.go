package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/mapper"
	"github.com/offermat/offermat/internal/repository"
	"go.uber.org/zap"
)

// BusinessCardService manages the singleton contact record printed on reports
type BusinessCardService struct {
	cardRepo *repository.BusinessCardRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBusinessCardService creates a new BusinessCardService instance
func NewBusinessCardService(cardRepo *repository.BusinessCardRepository, logger *zap.Logger) *BusinessCardService {
	return &BusinessCardService{
		cardRepo: cardRepo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the saved business card, or nil when none has been saved yet
func (s *BusinessCardService) Get(ctx context.Context) (*domain.BusinessCardDTO, error) {
	card, err := s.cardRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get business card: %w", err)
	}
	if card == nil {
		return nil, nil
	}
	dto := mapper.ToBusinessCardDTO(card)
	return &dto, nil
}

// Save creates or overwrites the contact record
func (s *BusinessCardService) Save(ctx context.Context, req *domain.SaveBusinessCardRequest) (*domain.BusinessCardDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	card := &domain.BusinessCard{
		Company:  req.Company,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save business card: %w", err)
	}

	s.logger.Info("business card saved", zap.String("company", card.Company))
	dto := mapper.ToBusinessCardDTO(card)
	return &dto, nil
}
