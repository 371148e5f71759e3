// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// OptionalID is a present-or-absent identity. It keeps "no party" and "a
// party X" as distinct, explicitly tested states instead of a nullable
// reference, while remaining scannable by GORM and rendering as null or a
// plain UUID string in JSON.
type OptionalID struct {
	uuid.NullUUID
}

func SomeID(id uuid.UUID) OptionalID {
	return OptionalID{uuid.NullUUID{UUID: id, Valid: true}}
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.UUID)
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalID{}
		return nil
	}
	if err := json.Unmarshal(data, &o.UUID); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Enums
type UserType string

const (
	UserTypeTrader UserType = "trader"
	UserTypeAdmin  UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// InnovationStatus is the lifecycle state of an innovation listing. Active
// is the only state that accepts transitions; Sold and Cancelled are
// terminal.
type InnovationStatus string

const (
	InnovationStatusActive    InnovationStatus = "active"
	InnovationStatusSold      InnovationStatus = "sold"
	InnovationStatusCancelled InnovationStatus = "cancelled"
)

type TradeOutcome string

const (
	TradeOutcomeSold      TradeOutcome = "sold"
	TradeOutcomeCancelled TradeOutcome = "cancelled"
)
