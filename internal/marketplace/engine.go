// internal/marketplace/engine.go
package marketplace

import (
	"github.com/google/uuid"

	"github.com/Patty240/nanotrade/internal/clock"
	"github.com/Patty240/nanotrade/internal/models"
)

// Bounds on listing metadata. Violations surface as ErrInvalidListing.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
)

// Settler moves funds from buyer to seller when a bid is accepted. It is
// invoked before the ownership transfer commits; if it fails the transfer
// does not happen, so settlement and transfer are atomic. A nil Settler
// skips settlement entirely.
type Settler interface {
	Settle(buyer, seller uuid.UUID, amount int64) error
}

// Engine is the marketplace state machine. Every operation takes the
// caller identity explicitly, runs read-validate-write under the ledger
// mutex, and either commits fully or returns a typed *Error with the
// ledger unchanged.
type Engine struct {
	ledger  *Ledger
	clock   clock.Clock
	settler Settler
}

func NewEngine(ledger *Ledger, clk clock.Clock, settler Settler) *Engine {
	return &Engine{
		ledger:  ledger,
		clock:   clk,
		settler: settler,
	}
}

// now returns logical ledger time in Unix seconds, 0 when no clock is
// wired or the clock yields the zero instant.
func (e *Engine) now() int64 {
	if e.clock == nil {
		return 0
	}
	t := e.clock.Now()
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// ListInnovation creates a new active listing owned by the caller and
// returns its id. Ids are sequential from 1 and never reused; the counter
// only advances on success.
func (e *Engine) ListInnovation(caller uuid.UUID, name, description string, minPrice int64) (uint64, error) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	if minPrice <= 0 {
		return 0, ErrInvalidListing
	}
	if len(name) > MaxNameLen || len(description) > MaxDescriptionLen {
		return 0, ErrInvalidListing
	}

	now := e.now()
	id := e.ledger.allocateID()

	e.ledger.putInnovation(models.Innovation{
		ID:          id,
		Owner:       caller,
		Name:        name,
		Description: description,
		MinPrice:    minPrice,
		Status:      models.InnovationStatusActive,
	})
	e.ledger.putListing(models.ListingInfo{
		InnovationID: id,
		Seller:       caller,
		Price:        minPrice,
		ListedAt:     now,
	})

	return id, nil
}

// PlaceBid records the caller's bid on an active innovation. The bid must
// meet the minimum price and strictly exceed the current highest bid; a
// tie never displaces the incumbent. A later bid from the same caller
// overwrites their earlier one. The previous highest bidder's record is
// left in place, merely no longer referenced as the winner.
func (e *Engine) PlaceBid(caller uuid.UUID, id uint64, amount int64) error {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	inn, ok := e.ledger.innovation(id)
	if !ok {
		return ErrInnovationNotFound
	}
	if inn.Status != models.InnovationStatusActive {
		return ErrListingClosed
	}
	if amount < inn.MinPrice || amount <= inn.HighestBid {
		return ErrBidTooLow
	}

	e.ledger.putBid(models.Bid{
		InnovationID: id,
		Bidder:       caller,
		Amount:       amount,
		PlacedAt:     e.now(),
	})

	inn.HighestBid = amount
	inn.HighestBidder = models.SomeID(caller)
	e.ledger.putInnovation(inn)

	return nil
}

// AcceptBid closes an active auction in the highest bidder's favor: the
// caller must be the current owner and at least one bid must exist.
// Settlement runs first; only if it succeeds does ownership transfer,
// status become Sold, and the highest-bid fields reset. Returns the
// accepted bid.
func (e *Engine) AcceptBid(caller uuid.UUID, id uint64) (models.Bid, error) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	inn, ok := e.ledger.innovation(id)
	if !ok {
		return models.Bid{}, ErrInnovationNotFound
	}
	if inn.Status != models.InnovationStatusActive {
		return models.Bid{}, ErrListingClosed
	}
	if inn.Owner != caller {
		return models.Bid{}, ErrUnauthorizedAccess
	}
	if !inn.HighestBidder.Valid {
		return models.Bid{}, ErrListingClosed
	}

	buyer := inn.HighestBidder.UUID
	accepted, ok := e.ledger.bid(id, buyer)
	if !ok {
		// Invariant: a valid highest bidder always has a live bid record.
		return models.Bid{}, ErrListingClosed
	}

	if e.settler != nil {
		if err := e.settler.Settle(buyer, inn.Owner, accepted.Amount); err != nil {
			return models.Bid{}, escrowFailed(err)
		}
	}

	inn.Owner = buyer
	inn.Status = models.InnovationStatusSold
	inn.HighestBid = 0
	inn.HighestBidder = models.OptionalID{}
	e.ledger.putInnovation(inn)

	return accepted, nil
}

// WithdrawListing cancels an active listing. Only the owner may withdraw,
// and only while the listing is still active; bids already recorded become
// permanently inert.
func (e *Engine) WithdrawListing(caller uuid.UUID, id uint64) error {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	inn, ok := e.ledger.innovation(id)
	if !ok {
		return ErrInnovationNotFound
	}
	if inn.Status != models.InnovationStatusActive {
		return ErrListingClosed
	}
	if inn.Owner != caller {
		return ErrUnauthorizedAccess
	}

	inn.Status = models.InnovationStatusCancelled
	e.ledger.putInnovation(inn)

	return nil
}

// InnovationDetails returns the full innovation record, or false if the id
// is unknown. Pure lookup, no authorization.
func (e *Engine) InnovationDetails(id uint64) (models.Innovation, bool) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()
	return e.ledger.innovation(id)
}

// InnovationListing returns the listing snapshot taken at creation time.
func (e *Engine) InnovationListing(id uint64) (models.ListingInfo, bool) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()
	return e.ledger.listing(id)
}

// HighestBid returns the current best offer. An unknown id yields
// (0, none) rather than an error.
func (e *Engine) HighestBid(id uint64) (int64, models.OptionalID) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	inn, ok := e.ledger.innovation(id)
	if !ok {
		return 0, models.OptionalID{}
	}
	return inn.HighestBid, inn.HighestBidder
}
