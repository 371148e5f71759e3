// internal/models/trade.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TradeRecord is the archived projection of a closed auction. The ledger
// keeps the authoritative Innovation forever; this row exists only for
// history queries and reporting.
type TradeRecord struct {
	BaseModel
	InnovationID uint64         `json:"innovation_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Seller       uuid.UUID      `json:"seller" gorm:"type:uuid;not null;index"`
	Buyer        OptionalID     `json:"buyer" gorm:"type:uuid;index"`
	Amount       int64          `json:"amount" gorm:"not null"`
	Outcome      TradeOutcome   `json:"outcome" gorm:"type:varchar(20);not null;index"`
	ClosedAt     int64          `json:"closed_at" gorm:"not null"`
	Documents    pq.StringArray `json:"documents" gorm:"type:text[]"`
}

// BidRecord archives every bid the ledger accepted, including bids that
// were later superseded. Accepted marks the bid that won the auction.
type BidRecord struct {
	BaseModel
	InnovationID uint64    `json:"innovation_id" gorm:"not null;index"`
	Bidder       uuid.UUID `json:"bidder" gorm:"type:uuid;not null;index"`
	Amount       int64     `json:"amount" gorm:"not null"`
	PlacedAt     int64     `json:"placed_at" gorm:"not null"`
	Accepted     bool      `json:"accepted" gorm:"default:false;index"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id" gorm:"size:50;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
}
