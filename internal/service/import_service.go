package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"leadhub/internal/apierror"
	"leadhub/internal/dto"
	"leadhub/internal/model"
	"leadhub/internal/repository"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxImportRows caps one CSV batch. Larger files must be split by the caller.
const MaxImportRows = 200

// ErrInvalidCSV means the payload could not be parsed as CSV at all.
var ErrInvalidCSV = errors.New("invalid CSV format")

// csvColumns is the wire contract for import and export: a fixed column order
// with a literal header line. Tags are comma-joined within their field.
var csvColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// ImportExportService moves buyer batches across the CSV boundary.
// Import is all-or-nothing: every row must validate or nothing is committed.
type ImportExportService interface {
	ImportCSV(ctx context.Context, actorID uuid.UUID, r io.Reader) (int, error)
	ExportCSV(ctx context.Context, filter dto.BuyerFilter) ([]byte, error)
}

type importExportService struct {
	repo    repository.BuyerRepository
	history repository.BuyerHistoryRepository
}

func NewImportExportService(repo repository.BuyerRepository, history repository.BuyerHistoryRepository) ImportExportService {
	return &importExportService{repo: repo, history: history}
}

func (s *importExportService) ImportCSV(ctx context.Context, actorID uuid.UUID, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, ErrInvalidCSV
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	records, err := cr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	// Hard cap checked before any row is examined — the caller must split
	// oversized batches.
	if len(records) > MaxImportRows {
		return 0, &BatchTooLargeError{Rows: len(records), Max: MaxImportRows}
	}

	var rowErrs []apierror.RowError
	inputs := make([]validation.BuyerInput, 0, len(records))

	for i, rec := range records {
		// Human-visible row number: 1-based plus the header line.
		rowNum := i + 2

		in, ferrs := parseRow(rec, colIdx)
		if normalized, verrs := validation.ValidateBuyer(in); verrs != nil {
			for field, msgs := range verrs {
				ferrs[field] = append(ferrs[field], msgs...)
			}
		} else if len(ferrs) == 0 {
			inputs = append(inputs, normalized)
			continue
		}

		rowErrs = append(rowErrs, apierror.RowError{Row: rowNum, Message: rowMessage(ferrs)})
	}

	// Any invalid row rejects the whole batch; all errors are reported so the
	// file can be fixed in one pass.
	if len(rowErrs) > 0 {
		return 0, &ImportRowsError{Rows: rowErrs}
	}

	// Single transactional unit: either every row lands (with its audit
	// entry) or none do.
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		buyers := make([]*model.Buyer, 0, len(inputs))
		for _, in := range inputs {
			b := buyerFromInput(in)
			b.OwnerID = actorID
			buyers = append(buyers, b)
		}
		if err := s.repo.CreateBatchTx(tx, buyers); err != nil {
			return err
		}
		for i, b := range buyers {
			diff, err := json.Marshal(map[string]interface{}{"imported": diffFields(inputs[i])})
			if err != nil {
				return err
			}
			if err := s.history.AppendTx(tx, &model.BuyerHistory{
				BuyerID:   b.ID,
				ChangedBy: actorID.String(),
				Diff:      diff,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(inputs), nil
}

// parseRow coerces one CSV record into a candidate input: tags arrive
// comma-joined, budgets arrive as strings, empty cells mean absent. Coercion
// failures are reported in the same field-scoped shape as validation errors.
func parseRow(rec []string, colIdx map[string]int) (validation.BuyerInput, validation.FieldErrors) {
	get := func(name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	optStr := func(name string) *string {
		if v := get(name); v != "" {
			return &v
		}
		return nil
	}

	ferrs := validation.FieldErrors{}
	optInt := func(name string) *int {
		v := get(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			ferrs[name] = append(ferrs[name], "Must be a whole number")
			return nil
		}
		return &n
	}

	var tags []string
	if raw := get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	in := validation.BuyerInput{
		FullName:     get("fullName"),
		Email:        optStr("email"),
		Phone:        get("phone"),
		City:         get("city"),
		PropertyType: get("propertyType"),
		BHK:          optStr("bhk"),
		Purpose:      get("purpose"),
		BudgetMin:    optInt("budgetMin"),
		BudgetMax:    optInt("budgetMax"),
		Timeline:     get("timeline"),
		Source:       get("source"),
		Notes:        optStr("notes"),
		Tags:         tags,
		Status:       optStr("status"),
	}
	return in, ferrs
}

// rowMessage flattens field errors into one deterministic line per row.
func rowMessage(ferrs validation.FieldErrors) string {
	fields := make([]string, 0, len(ferrs))
	for f := range ferrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(ferrs[f], ", "))
	}
	return strings.Join(parts, "; ")
}

func (s *importExportService) ExportCSV(ctx context.Context, filter dto.BuyerFilter) ([]byte, error) {
	buyers, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvColumns); err != nil {
		return nil, err
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}

	for i := range buyers {
		b := &buyers[i]
		rec := []string{
			b.FullName,
			str(b.Email),
			b.Phone,
			b.City,
			b.PropertyType,
			str(b.BHK),
			b.Purpose,
			num(b.BudgetMin),
			num(b.BudgetMax),
			b.Timeline,
			b.Source,
			str(b.Notes),
			strings.Join(b.Tags, ","),
			b.Status,
		}
		if err := cw.Write(rec); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
