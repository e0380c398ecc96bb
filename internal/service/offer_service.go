package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/config"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/pricing"
	"github.com/offermat/offermat/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferService composes the transient offer line-item list. Sessions are
// explicit value objects passed to every operation; the service keeps no
// state of its own. Numeric edits accept both "." and "," decimal separators
// and leave the line untouched when the input is rejected.
type OfferService struct {
	productRepo        *repository.ProductRepository
	defaultTitle       string
	uncategorizedLabel string
	logger             *zap.Logger
}

// NewOfferService creates a new OfferService instance
func NewOfferService(productRepo *repository.ProductRepository, cfg *config.OfferConfig, logger *zap.Logger) *OfferService {
	return &OfferService{
		productRepo:        productRepo,
		defaultTitle:       cfg.DefaultTitle,
		uncategorizedLabel: cfg.UncategorizedLabel,
		logger:             logger,
	}
}

// NewSession starts an empty offer session dated now
func (s *OfferService) NewSession(title string) *domain.OfferSession {
	if title == "" {
		title = s.defaultTitle
	}
	return &domain.OfferSession{
		Title: title,
		Date:  time.Now(),
	}
}

// LoadFromCategories replaces the session's items with one line per product
// belonging to any selected category. The margin is seeded from the
// category's default margin and the quantity to 1. Selecting no categories
// is refused with ErrEmptySelection so the UI can warn instead of clearing
// the offer.
func (s *OfferService) LoadFromCategories(ctx context.Context, session *domain.OfferSession, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return ErrEmptySelection
	}

	items := make([]domain.OfferLine, 0)
	for _, categoryID := range categoryIDs {
		id := categoryID
		views, err := s.productRepo.List(ctx, &id)
		if err != nil {
			return fmt.Errorf("failed to load category products: %w", err)
		}

		for _, view := range views {
			margin := decimal.Zero
			if view.CategoryDefaultMargin != nil {
				margin = *view.CategoryDefaultMargin
			}
			categoryName := s.uncategorizedLabel
			if view.CategoryName != nil {
				categoryName = *view.CategoryName
			}

			items = append(items, domain.OfferLine{
				LineID:           uuid.New(),
				ProductID:        view.ID,
				Name:             view.Name,
				Unit:             view.Unit,
				Quantity:         decimal.NewFromInt(1),
				PurchasePriceNet: view.PurchasePriceNet,
				VATRate:          view.VATRate,
				Margin:           margin,
				CategoryName:     categoryName,
			})
		}
	}

	session.Items = items
	s.logger.Debug("offer loaded",
		zap.Int("categories", len(categoryIDs)),
		zap.Int("lines", len(items)),
	)
	return nil
}

// UpdateQuantity sets a line's quantity from user input
func (s *OfferService) UpdateQuantity(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	quantity, err := pricing.ParseAmount(value)
	if err != nil {
		return fmt.Errorf("%w: quantity %q", ErrInvalidInput, value)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Quantity = quantity
	return nil
}

// UpdateMargin sets a line's margin from user input
func (s *OfferService) UpdateMargin(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	margin, err := pricing.ParseAmount(value)
	if err != nil {
		return fmt.Errorf("%w: margin %q", ErrInvalidInput, value)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Margin = margin
	return nil
}

// UpdateNetPrice derives and stores the margin that yields the edited net
// unit price. Rejected for lines with a zero purchase price.
func (s *OfferService) UpdateNetPrice(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	netUnit, err := pricing.ParseAmount(value)
	if err != nil {
		return fmt.Errorf("%w: net price %q", ErrInvalidInput, value)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	margin, err := pricing.MarginFromNetUnit(netUnit, line.PurchasePriceNet)
	if err != nil {
		return err
	}
	line.Margin = margin
	return nil
}

// UpdateGrossPrice derives and stores the margin that yields the edited
// gross unit price at the line's VAT rate
func (s *OfferService) UpdateGrossPrice(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	grossUnit, err := pricing.ParseAmount(value)
	if err != nil {
		return fmt.Errorf("%w: gross price %q", ErrInvalidInput, value)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	margin, err := pricing.MarginFromGrossUnit(grossUnit, line.PurchasePriceNet, line.VATRate)
	if err != nil {
		return err
	}
	line.Margin = margin
	return nil
}

// UpdateName edits a line's display name (the catalog product is untouched)
func (s *OfferService) UpdateName(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	if value == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Name = value
	return nil
}

// UpdateUnit edits a line's unit of measure
func (s *OfferService) UpdateUnit(session *domain.OfferSession, lineID uuid.UUID, value string) error {
	if value == "" {
		return fmt.Errorf("%w: unit must not be empty", ErrInvalidInput)
	}
	line := session.Line(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Unit = value
	return nil
}

// RemoveLine removes one line from the session
func (s *OfferService) RemoveLine(session *domain.OfferSession, lineID uuid.UUID) error {
	for i := range session.Items {
		if session.Items[i].LineID == lineID {
			session.Items = append(session.Items[:i], session.Items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}
