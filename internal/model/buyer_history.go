package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BuyerHistory records every mutation of a buyer as a field-level diff.
// Entries are immutable — never updated or deleted; reads always return the
// most recent entries first.
//
// Diff payload shapes:
//   create: {"created": {<all fields>}}
//   import: {"imported": {<all fields>}}
//   update: {<field>: <new value>, ...}
type BuyerHistory struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuyerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChangedBy string          `gorm:"not null"`
	Diff      json.RawMessage `gorm:"type:jsonb;not null"`
	ChangedAt time.Time       `gorm:"autoCreateTime;index"`

	Buyer Buyer `gorm:"foreignKey:BuyerID"`
}
