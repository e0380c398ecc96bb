package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/offermat/offermat/internal/config"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/mapper"
	"github.com/offermat/offermat/internal/pricing"
	"github.com/offermat/offermat/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// reportDateLayout is the date format stamped onto reports
const reportDateLayout = "02.01.2006"

// ReportService turns an offer session into the render-ready structure
// consumed by document renderers: line items grouped by category with
// per-group subtotals and grand totals. Groups are emitted in ascending name
// order so the report layout is deterministic.
type ReportService struct {
	cardRepo           *repository.BusinessCardRepository
	uncategorizedLabel string
	logger             *zap.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(cardRepo *repository.BusinessCardRepository, cfg *config.OfferConfig, logger *zap.Logger) *ReportService {
	return &ReportService{
		cardRepo:           cardRepo,
		uncategorizedLabel: cfg.UncategorizedLabel,
		logger:             logger,
	}
}

// BuildReport aggregates the session into grouped, totaled report data and
// attaches the saved business card when one exists
func (s *ReportService) BuildReport(ctx context.Context, session *domain.OfferSession) (*domain.OfferReport, error) {
	card, err := s.cardRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business card: %w", err)
	}

	date := session.Date
	if date.IsZero() {
		date = time.Now()
	}

	report := &domain.OfferReport{
		Title:           session.Title,
		Date:            date.Format(reportDateLayout),
		GrandTotalNet:   decimal.Zero,
		GrandTotalGross: decimal.Zero,
	}
	if card != nil {
		dto := mapper.ToBusinessCardDTO(card)
		report.Contact = &dto
	}

	grouped := make(map[string][]domain.ReportItem)
	for _, line := range session.Items {
		categoryName := line.CategoryName
		if categoryName == "" {
			categoryName = s.uncategorizedLabel
		}

		breakdown := pricing.Calculate(line.PurchasePriceNet, line.Margin, line.VATRate, line.Quantity)
		grouped[categoryName] = append(grouped[categoryName], domain.ReportItem{
			Name:       line.Name,
			Unit:       line.Unit,
			Quantity:   line.Quantity,
			VATRate:    line.VATRate,
			NetUnit:    breakdown.NetUnit,
			GrossUnit:  breakdown.GrossUnit,
			NetTotal:   breakdown.NetTotal,
			GrossTotal: breakdown.GrossTotal,
		})
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := domain.ReportGroup{
			CategoryName:  name,
			Items:         grouped[name],
			SubtotalNet:   decimal.Zero,
			SubtotalGross: decimal.Zero,
		}
		for _, item := range group.Items {
			group.SubtotalNet = group.SubtotalNet.Add(item.NetTotal)
			group.SubtotalGross = group.SubtotalGross.Add(item.GrossTotal)
		}
		report.GrandTotalNet = report.GrandTotalNet.Add(group.SubtotalNet)
		report.GrandTotalGross = report.GrandTotalGross.Add(group.SubtotalGross)
		report.Groups = append(report.Groups, group)
	}

	s.logger.Debug("report built",
		zap.String("title", report.Title),
		zap.Int("groups", len(report.Groups)),
	)
	return report, nil
}
