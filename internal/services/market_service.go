// internal/services/market_service.go
package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Patty240/nanotrade/internal/clock"
	"github.com/Patty240/nanotrade/internal/marketplace"
	"github.com/Patty240/nanotrade/internal/models"
	"github.com/Patty240/nanotrade/internal/utils"
)

// MarketService wraps the marketplace engine with request validation and
// the archive projection. The engine alone decides whether an operation
// commits; the archive only ever records what already happened, so its
// writes run asynchronously and never affect the outcome.
type MarketService struct {
	engine  *marketplace.Engine
	archive *ArchiveService
	clock   clock.Clock

	// Seller-supplied document URLs, keyed by innovation id. Informational
	// only; carried into the trade archive when the listing closes.
	docsMu sync.Mutex
	docs   map[uint64][]string
}

type ListInnovationRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	MinPrice    int64    `json:"min_price" validate:"required,gt=0"`
	Documents   []string `json:"documents,omitempty" validate:"max=10,dive,url"`
}

type PlaceBidRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func NewMarketService(engine *marketplace.Engine, archive *ArchiveService, clk clock.Clock) *MarketService {
	return &MarketService{
		engine:  engine,
		archive: archive,
		clock:   clk,
		docs:    make(map[uint64][]string),
	}
}

func (s *MarketService) now() int64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.Now().Unix()
}

func (s *MarketService) ListInnovation(caller uuid.UUID, req *ListInnovationRequest) (uint64, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	id, err := s.engine.ListInnovation(caller, req.Name, req.Description, req.MinPrice)
	if err != nil {
		return 0, err
	}

	if len(req.Documents) > 0 {
		s.docsMu.Lock()
		s.docs[id] = req.Documents
		s.docsMu.Unlock()
	}

	return id, nil
}

func (s *MarketService) PlaceBid(caller uuid.UUID, id uint64, req *PlaceBidRequest) error {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.engine.PlaceBid(caller, id, req.Amount); err != nil {
		return err
	}

	if s.archive != nil {
		go s.archive.RecordBid(models.Bid{
			InnovationID: id,
			Bidder:       caller,
			Amount:       req.Amount,
			PlacedAt:     s.now(),
		})
	}

	return nil
}

func (s *MarketService) AcceptBid(caller uuid.UUID, id uint64) (models.Bid, error) {
	accepted, err := s.engine.AcceptBid(caller, id)
	if err != nil {
		return models.Bid{}, err
	}

	docs := s.takeDocuments(id)
	if s.archive != nil {
		inn, _ := s.engine.InnovationDetails(id)
		go s.archive.RecordTrade(&models.TradeRecord{
			InnovationID: id,
			Name:         inn.Name,
			Seller:       caller,
			Buyer:        models.SomeID(accepted.Bidder),
			Amount:       accepted.Amount,
			Outcome:      models.TradeOutcomeSold,
			ClosedAt:     s.now(),
			Documents:    docs,
		})
	}

	return accepted, nil
}

func (s *MarketService) WithdrawListing(caller uuid.UUID, id uint64) error {
	if err := s.engine.WithdrawListing(caller, id); err != nil {
		return err
	}

	docs := s.takeDocuments(id)
	if s.archive != nil {
		inn, _ := s.engine.InnovationDetails(id)
		go s.archive.RecordTrade(&models.TradeRecord{
			InnovationID: id,
			Name:         inn.Name,
			Seller:       caller,
			Amount:       inn.HighestBid,
			Outcome:      models.TradeOutcomeCancelled,
			ClosedAt:     s.now(),
			Documents:    docs,
		})
	}

	return nil
}

func (s *MarketService) InnovationDetails(id uint64) (models.Innovation, bool) {
	return s.engine.InnovationDetails(id)
}

func (s *MarketService) InnovationListing(id uint64) (models.ListingInfo, bool) {
	return s.engine.InnovationListing(id)
}

func (s *MarketService) HighestBid(id uint64) (int64, models.OptionalID) {
	return s.engine.HighestBid(id)
}

func (s *MarketService) TradeHistory(params utils.PaginationParams) ([]models.TradeRecord, int64, error) {
	if s.archive == nil {
		return nil, 0, fmt.Errorf("trade archive is not configured")
	}
	return s.archive.Trades(params)
}

func (s *MarketService) BidHistory(id uint64, params utils.PaginationParams) ([]models.BidRecord, int64, error) {
	if s.archive == nil {
		return nil, 0, fmt.Errorf("trade archive is not configured")
	}
	return s.archive.InnovationBids(id, params)
}

// takeDocuments removes and returns the documents attached to a listing.
// The entry is only needed until the listing closes and the archive row
// carrying the URLs is written.
func (s *MarketService) takeDocuments(id uint64) []string {
	s.docsMu.Lock()
	defer s.docsMu.Unlock()
	docs := s.docs[id]
	delete(s.docs, id)
	return docs
}
