// internal/marketplace/ledger.go
package marketplace

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Patty240/nanotrade/internal/models"
)

// BidKey addresses one bidder's live bid on one innovation.
type BidKey struct {
	InnovationID uint64
	Bidder       uuid.UUID
}

// Ledger owns the authoritative marketplace state: the innovation map, the
// listing-snapshot map, the bid map and the sequence counter. All access
// goes through the engine while holding mu, so each operation sees and
// leaves a consistent snapshot. Records are never deleted: sold and
// cancelled innovations stay as history, and superseded bids stay in the
// bid map, inert.
type Ledger struct {
	mu          sync.Mutex
	innovations map[uint64]models.Innovation
	listings    map[uint64]models.ListingInfo
	bids        map[BidKey]models.Bid
	nextID      uint64
}

func NewLedger() *Ledger {
	return &Ledger{
		innovations: make(map[uint64]models.Innovation),
		listings:    make(map[uint64]models.ListingInfo),
		bids:        make(map[BidKey]models.Bid),
		nextID:      1,
	}
}

// allocateID hands out the next innovation id and advances the counter.
// Call only after the operation can no longer fail.
func (l *Ledger) allocateID() uint64 {
	id := l.nextID
	l.nextID++
	return id
}

func (l *Ledger) innovation(id uint64) (models.Innovation, bool) {
	inn, ok := l.innovations[id]
	return inn, ok
}

func (l *Ledger) putInnovation(inn models.Innovation) {
	l.innovations[inn.ID] = inn
}

func (l *Ledger) listing(id uint64) (models.ListingInfo, bool) {
	ls, ok := l.listings[id]
	return ls, ok
}

func (l *Ledger) putListing(ls models.ListingInfo) {
	l.listings[ls.InnovationID] = ls
}

func (l *Ledger) bid(id uint64, bidder uuid.UUID) (models.Bid, bool) {
	b, ok := l.bids[BidKey{InnovationID: id, Bidder: bidder}]
	return b, ok
}

func (l *Ledger) putBid(b models.Bid) {
	l.bids[BidKey{InnovationID: b.InnovationID, Bidder: b.Bidder}] = b
}
