// internal/services/archive_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Patty240/nanotrade/internal/models"
	"github.com/Patty240/nanotrade/internal/utils"
)

// ArchiveService projects closed auctions and accepted bids into Postgres.
// The ledger stays authoritative; these rows exist for history queries
// only and are written asynchronously after the engine has committed.
type ArchiveService struct {
	db *gorm.DB
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{
		db: db,
	}
}

func (s *ArchiveService) RecordBid(bid models.Bid) {
	record := &models.BidRecord{
		InnovationID: bid.InnovationID,
		Bidder:       bid.Bidder,
		Amount:       bid.Amount,
		PlacedAt:     bid.PlacedAt,
	}

	if err := s.db.Create(record).Error; err != nil {
		logrus.WithError(err).WithField("innovation_id", bid.InnovationID).
			Error("Failed to archive bid")
	}
}

func (s *ArchiveService) RecordTrade(record *models.TradeRecord) {
	if err := s.db.Create(record).Error; err != nil {
		logrus.WithError(err).WithField("innovation_id", record.InnovationID).
			Error("Failed to archive trade")
		return
	}

	// Flag the winning bid in the bid archive.
	if record.Outcome == models.TradeOutcomeSold && record.Buyer.Valid {
		if err := s.db.Model(&models.BidRecord{}).
			Where("innovation_id = ? AND bidder = ? AND amount = ?",
				record.InnovationID, record.Buyer.UUID, record.Amount).
			Update("accepted", true).Error; err != nil {
			logrus.WithError(err).WithField("innovation_id", record.InnovationID).
				Error("Failed to mark accepted bid")
		}
	}
}

func (s *ArchiveService) Trades(params utils.PaginationParams) ([]models.TradeRecord, int64, error) {
	query := s.db.Model(&models.TradeRecord{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trades: %w", err)
	}

	allowedSortFields := []string{"created_at", "closed_at", "amount", "outcome"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var trades []models.TradeRecord
	if err := query.Find(&trades).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch trades: %w", err)
	}

	return trades, total, nil
}

func (s *ArchiveService) InnovationBids(innovationID uint64, params utils.PaginationParams) ([]models.BidRecord, int64, error) {
	query := s.db.Model(&models.BidRecord{}).Where("innovation_id = ?", innovationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bids: %w", err)
	}

	allowedSortFields := []string{"created_at", "placed_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var bids []models.BidRecord
	if err := query.Find(&bids).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bids: %w", err)
	}

	return bids, total, nil
}
