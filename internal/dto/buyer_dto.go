package dto

import (
	"encoding/json"
	"time"

	"leadhub/internal/validation"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UpdateBuyerRequest carries the full buyer payload plus the UpdatedAt value
// the caller last observed. The service compares it against the stored
// timestamp before touching anything else — a stale token means the record
// changed under the caller.
type UpdateBuyerRequest struct {
	validation.BuyerInput
	UpdatedAt time.Time `json:"updatedAt"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type BuyerFilter struct {
	Q            string `form:"q"`
	City         string `form:"city"`
	PropertyType string `form:"propertyType"`
	Status       string `form:"status"`
	Timeline     string `form:"timeline"`
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BuyerResponse struct {
	ID           string   `json:"id"`
	FullName     string   `json:"fullName"`
	Email        *string  `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"propertyType"`
	BHK          *string  `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *int     `json:"budgetMin"`
	BudgetMax    *int     `json:"budgetMax"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Notes        *string  `json:"notes"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	OwnerID      string   `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type HistoryEntryResponse struct {
	ID        string          `json:"id"`
	BuyerID   string          `json:"buyerId"`
	ChangedBy string          `json:"changedBy"`
	Diff      json.RawMessage `json:"diff"`
	ChangedAt time.Time       `json:"changedAt"`
}

// BuyerWithHistoryResponse pairs a buyer with its 5 most recent history
// entries, newest first.
type BuyerWithHistoryResponse struct {
	Buyer   BuyerResponse          `json:"buyer"`
	History []HistoryEntryResponse `json:"history"`
}

type BuyerListResponse struct {
	Data  []BuyerResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ImportResponse reports a fully committed batch.
type ImportResponse struct {
	Inserted int `json:"inserted"`
}

// StatsResponse is the dashboard summary. Averages are fixed to two decimal
// places.
type StatsResponse struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"byStatus"`
	ByCity       map[string]int64 `json:"byCity"`
	AvgBudgetMin string           `json:"avgBudgetMin"`
	AvgBudgetMax string           `json:"avgBudgetMax"`
}
