package model

import (
	"time"

	"github.com/google/uuid"
)

// Closed-set enum values for buyer fields. These round-trip through the
// database and the CSV import/export format, so the members are part of the
// contract — validation, storage and import all resolve against this single
// source (see EnumValues).
var (
	Cities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypes = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	BHKTypes      = []string{"Studio", "One", "Two", "Three", "Four"}
	Purposes      = []string{"Buy", "Rent"}
	Timelines     = []string{"ZeroToThree", "ThreeToSix", "MoreThanSix", "Exploring"}
	Sources       = []string{"Website", "Referral", "Walk_in", "Call", "Other"}
	Statuses      = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

const (
	PropertyApartment = "Apartment"
	PropertyVilla     = "Villa"

	StatusNew = "New"
)

var enumSets = map[string][]string{
	"city":          Cities,
	"property_type": PropertyTypes,
	"bhk":           BHKTypes,
	"purpose":       Purposes,
	"timeline":      Timelines,
	"source":        Sources,
	"status":        Statuses,
}

// EnumValues returns the allowed members for a named closed set.
func EnumValues(name string) []string { return enumSets[name] }

// InEnum reports whether v is a member of the named closed set.
func InEnum(name, v string) bool {
	for _, m := range enumSets[name] {
		if m == v {
			return true
		}
	}
	return false
}

// Buyer is a captured lead: contact info, property preferences, budget range
// and timeline. Mutable only through the buyer service, which re-validates and
// re-stamps UpdatedAt on every write. UpdatedAt doubles as the optimistic
// concurrency token.
type Buyer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string    `gorm:"not null;index"`
	Email        *string   `gorm:"index"`
	Phone        string    `gorm:"not null;index"`
	City         string    `gorm:"type:varchar(20);not null"`
	PropertyType string    `gorm:"type:varchar(20);not null"`
	BHK          *string   `gorm:"type:varchar(10)"`
	Purpose      string    `gorm:"type:varchar(10);not null"`
	BudgetMin    *int
	BudgetMax    *int
	Timeline     string  `gorm:"type:varchar(20);not null"`
	Source       string  `gorm:"type:varchar(20);not null"`
	Notes        *string `gorm:"type:text"`
	Tags         []string `gorm:"serializer:json;type:jsonb"`
	Status       string  `gorm:"type:varchar(20);not null;default:'New';index"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`
}
