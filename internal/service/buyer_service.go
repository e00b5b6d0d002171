package service

import (
	"context"
	"encoding/json"
	"errors"

	"leadhub/internal/dto"
	"leadhub/internal/infra"
	"leadhub/internal/model"
	"leadhub/internal/repository"
	"leadhub/internal/validation"
	"leadhub/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// recentHistoryLimit bounds every history read path.
const recentHistoryLimit = 5

// BuyerService is the single mutation path for buyer leads. Every write goes
// through the constraint engine and appends exactly one history entry.
type BuyerService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in validation.BuyerInput) (*dto.BuyerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BuyerWithHistoryResponse, error)
	List(ctx context.Context, filter dto.BuyerFilter) (*dto.BuyerListResponse, error)
	Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req dto.UpdateBuyerRequest) (*dto.BuyerWithHistoryResponse, error)
	LeadSheet(ctx context.Context, id uuid.UUID) (string, error)
}

type buyerService struct {
	repo        repository.BuyerRepository
	history     repository.BuyerHistoryRepository
	dispatcher  *worker.Dispatcher // nil in unit tests — notifications are best-effort
	storagePath string
}

func NewBuyerService(repo repository.BuyerRepository, history repository.BuyerHistoryRepository, dispatcher *worker.Dispatcher, storagePath string) BuyerService {
	return &buyerService{repo: repo, history: history, dispatcher: dispatcher, storagePath: storagePath}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *buyerService) Create(ctx context.Context, ownerID uuid.UUID, in validation.BuyerInput) (*dto.BuyerResponse, error) {
	normalized, ferrs := validation.ValidateBuyer(in)
	if ferrs != nil {
		return nil, &ValidationFailedError{Fields: ferrs}
	}

	buyer := buyerFromInput(normalized)
	buyer.OwnerID = ownerID

	// Buyer row and its creation history entry commit together — a lead
	// without an audit trail must not exist.
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, buyer); err != nil {
			return err
		}
		diff, err := json.Marshal(map[string]interface{}{"created": diffFields(normalized)})
		if err != nil {
			return err
		}
		return s.history.AppendTx(tx, &model.BuyerHistory{
			BuyerID:   buyer.ID,
			ChangedBy: ownerID.String(),
			Diff:      diff,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueNotify(ctx, worker.NotifyJobPayload{Buyer: *buyer}); err != nil {
			// The lead is already persisted; a lost alert is not a failure.
			log.Error().Err(err).Str("buyer_id", buyer.ID.String()).Msg("failed to enqueue lead notification")
		}
	}

	resp := mapBuyer(buyer)
	return &resp, nil
}

func (s *buyerService) Get(ctx context.Context, id uuid.UUID) (*dto.BuyerWithHistoryResponse, error) {
	buyer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, err
	}
	return s.withRecentHistory(ctx, buyer)
}

func (s *buyerService) List(ctx context.Context, filter dto.BuyerFilter) (*dto.BuyerListResponse, error) {
	buyers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.BuyerResponse, 0, len(buyers))
	for i := range buyers {
		data = append(data, mapBuyer(&buyers[i]))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	return &dto.BuyerListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *buyerService) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req dto.UpdateBuyerRequest) (*dto.BuyerWithHistoryResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, err
	}

	// Concurrency check runs before validation: it is cheaper and a stale
	// token is a different failure class than bad input.
	if !existing.UpdatedAt.Equal(req.UpdatedAt) {
		return nil, ErrVersionConflict
	}

	normalized, ferrs := validation.ValidateBuyer(req.BuyerInput)
	if ferrs != nil {
		return nil, &ValidationFailedError{Fields: ferrs}
	}

	fields := columnValues(normalized)

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The WHERE updated_at = ? guard re-checks the version inside the
		// store, closing most of the read-compare-write window.
		rows, err := s.repo.UpdateFieldsTx(tx, id, req.UpdatedAt, fields)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrVersionConflict
		}
		diff, err := json.Marshal(diffFields(normalized))
		if err != nil {
			return err
		}
		return s.history.AppendTx(tx, &model.BuyerHistory{
			BuyerID:   id,
			ChangedBy: actorID.String(),
			Diff:      diff,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRecentHistory(ctx, updated)
}

// LeadSheet renders a printable PDF summary for one buyer and returns the
// path of the generated file.
func (s *buyerService) LeadSheet(ctx context.Context, id uuid.UUID) (string, error) {
	buyer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBuyerNotFound
		}
		return "", err
	}
	return infra.GenerateLeadPDF(buyer, s.storagePath)
}

func (s *buyerService) withRecentHistory(ctx context.Context, buyer *model.Buyer) (*dto.BuyerWithHistoryResponse, error) {
	entries, err := s.history.RecentByBuyer(ctx, buyer.ID, recentHistoryLimit)
	if err != nil {
		return nil, err
	}
	history := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		history = append(history, mapHistory(&entries[i]))
	}
	return &dto.BuyerWithHistoryResponse{Buyer: mapBuyer(buyer), History: history}, nil
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func buyerFromInput(in validation.BuyerInput) *model.Buyer {
	status := model.StatusNew
	if in.Status != nil {
		status = *in.Status
	}
	return &model.Buyer{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         in.City,
		PropertyType: in.PropertyType,
		BHK:          in.BHK,
		Purpose:      in.Purpose,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     in.Timeline,
		Source:       in.Source,
		Notes:        in.Notes,
		Tags:         in.Tags,
		Status:       status,
	}
}

// columnValues maps a normalized input onto DB columns for a full-record
// update. Status stays untouched when the caller did not supply one.
func columnValues(in validation.BuyerInput) map[string]interface{} {
	fields := map[string]interface{}{
		"full_name":     in.FullName,
		"email":         in.Email,
		"phone":         in.Phone,
		"city":          in.City,
		"property_type": in.PropertyType,
		"bhk":           in.BHK,
		"purpose":       in.Purpose,
		"budget_min":    in.BudgetMin,
		"budget_max":    in.BudgetMax,
		"timeline":      in.Timeline,
		"source":        in.Source,
		"notes":         in.Notes,
		"tags":          in.Tags,
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	return fields
}

// diffFields is the history payload: only the fields the caller actually
// supplied, keyed by their wire names.
func diffFields(in validation.BuyerInput) map[string]interface{} {
	diff := map[string]interface{}{
		"fullName":     in.FullName,
		"phone":        in.Phone,
		"city":         in.City,
		"propertyType": in.PropertyType,
		"purpose":      in.Purpose,
		"timeline":     in.Timeline,
		"source":       in.Source,
		"tags":         in.Tags,
	}
	if in.Email != nil {
		diff["email"] = *in.Email
	}
	if in.BHK != nil {
		diff["bhk"] = *in.BHK
	}
	if in.BudgetMin != nil {
		diff["budgetMin"] = *in.BudgetMin
	}
	if in.BudgetMax != nil {
		diff["budgetMax"] = *in.BudgetMax
	}
	if in.Notes != nil {
		diff["notes"] = *in.Notes
	}
	if in.Status != nil {
		diff["status"] = *in.Status
	}
	return diff
}

func mapBuyer(b *model.Buyer) dto.BuyerResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.BuyerResponse{
		ID:           b.ID.String(),
		FullName:     b.FullName,
		Email:        b.Email,
		Phone:        b.Phone,
		City:         b.City,
		PropertyType: b.PropertyType,
		BHK:          b.BHK,
		Purpose:      b.Purpose,
		BudgetMin:    b.BudgetMin,
		BudgetMax:    b.BudgetMax,
		Timeline:     b.Timeline,
		Source:       b.Source,
		Notes:        b.Notes,
		Tags:         tags,
		Status:       b.Status,
		OwnerID:      b.OwnerID.String(),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func mapHistory(h *model.BuyerHistory) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:        h.ID.String(),
		BuyerID:   h.BuyerID.String(),
		ChangedBy: h.ChangedBy,
		Diff:      h.Diff,
		ChangedAt: h.ChangedAt,
	}
}
