// internal/models/innovation.go
package models

import (
	"github.com/google/uuid"
)

// Innovation is the authoritative record for one listed asset. It lives in
// the in-memory ledger, never in Postgres: ids are sequential integers
// assigned by the ledger's counter and are never reused, even after a
// listing is cancelled.
//
// HighestBidder is an OptionalID so that "no bid yet" and "a bid from X"
// stay distinct states: HighestBid is 0 exactly when Valid is false.
type Innovation struct {
	ID            uint64           `json:"id"`
	Owner         uuid.UUID        `json:"owner"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	MinPrice      int64            `json:"min_price"`
	Status        InnovationStatus `json:"status"`
	HighestBid    int64            `json:"highest_bid"`
	HighestBidder OptionalID       `json:"highest_bidder"`
}

// ListingInfo is the seller-facing snapshot taken when an innovation is
// listed. Read-only after creation; ListedAt is logical ledger time.
type ListingInfo struct {
	InnovationID uint64    `json:"innovation_id"`
	Seller       uuid.UUID `json:"seller"`
	Price        int64     `json:"price"`
	ListedAt     int64     `json:"listed_at"`
}

// Bid is one bidder's live offer on an innovation. A bidder holds at most
// one bid per innovation; a later bid from the same bidder overwrites the
// earlier one.
type Bid struct {
	InnovationID uint64    `json:"innovation_id"`
	Bidder       uuid.UUID `json:"bidder"`
	Amount       int64     `json:"amount"`
	PlacedAt     int64     `json:"placed_at"`
}
