// internal/services/market_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Patty240/nanotrade/internal/clock"
	"github.com/Patty240/nanotrade/internal/marketplace"
)

func newTestMarketService() *MarketService {
	clk := clock.NewFixed(time.Unix(1700000000, 0))
	engine := marketplace.NewEngine(marketplace.NewLedger(), clk, NoopSettler{})
	return NewMarketService(engine, nil, clk)
}

func listWithDocuments(t *testing.T, s *MarketService, seller uuid.UUID) uint64 {
	t.Helper()
	id, err := s.ListInnovation(seller, &ListInnovationRequest{
		Name:        "Graphene Filter",
		Description: "membrane prototype",
		MinPrice:    500,
		Documents:   []string{"https://example.com/prototype.pdf"},
	})
	require.NoError(t, err)
	return id
}

func TestDocumentsReleasedAfterAccept(t *testing.T) {
	s := newTestMarketService()
	seller := uuid.New()
	buyer := uuid.New()

	id := listWithDocuments(t, s, seller)
	assert.Len(t, s.docs, 1)

	require.NoError(t, s.PlaceBid(buyer, id, &PlaceBidRequest{Amount: 750}))
	_, err := s.AcceptBid(seller, id)
	require.NoError(t, err)

	// The entry is consumed when the listing closes.
	assert.Empty(t, s.docs)
}

func TestDocumentsReleasedAfterWithdraw(t *testing.T) {
	s := newTestMarketService()
	seller := uuid.New()

	id := listWithDocuments(t, s, seller)
	assert.Len(t, s.docs, 1)

	require.NoError(t, s.WithdrawListing(seller, id))
	assert.Empty(t, s.docs)
}

func TestDocumentsKeptWhileActive(t *testing.T) {
	s := newTestMarketService()
	seller := uuid.New()

	id := listWithDocuments(t, s, seller)

	// A failed close leaves the entry in place.
	err := s.WithdrawListing(uuid.New(), id)
	require.Error(t, err)
	assert.Len(t, s.docs, 1)
}
