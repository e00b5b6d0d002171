package service

import (
	"context"

	"leadhub/internal/dto"
	"leadhub/internal/repository"

	"github.com/shopspring/decimal"
)

// StatsService produces the dashboard summary: lead totals, breakdowns by
// status and city, and average budget bounds.
type StatsService interface {
	Summary(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	repo repository.BuyerRepository
}

func NewStatsService(repo repository.BuyerRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) Summary(ctx context.Context) (*dto.StatsResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.GroupCounts(ctx, "status")
	if err != nil {
		return nil, err
	}
	byCity, err := s.repo.GroupCounts(ctx, "city")
	if err != nil {
		return nil, err
	}
	sumMin, cntMin, sumMax, cntMax, err := s.repo.BudgetTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Total:        total,
		ByStatus:     byStatus,
		ByCity:       byCity,
		AvgBudgetMin: average(sumMin, cntMin),
		AvgBudgetMax: average(sumMax, cntMax),
	}, nil
}

// average divides whole-rupee sums without float drift, fixed to 2 decimals.
func average(sum, count int64) string {
	if count == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).StringFixed(2)
}
