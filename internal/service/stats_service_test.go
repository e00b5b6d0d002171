package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSummary_Empty(t *testing.T) {
	svc := NewStatsService(newStubBuyerRepo())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), got.Total)
	assert.Empty(t, got.ByStatus)
	assert.Equal(t, "0.00", got.AvgBudgetMin)
	assert.Equal(t, "0.00", got.AvgBudgetMax)
}

func TestStatsSummary_CountsAndAverages(t *testing.T) {
	repo := newStubBuyerRepo()
	buyerSvc := NewBuyerService(repo, newStubHistoryRepo(), nil, "")
	owner := uuid.New()

	seed := []struct {
		city   string
		status string
		min    *int
		max    *int
	}{
		{"Mohali", "Qualified", intPtr(3000000), intPtr(5000000)},
		{"Mohali", "", intPtr(2000000), nil},
		{"Panchkula", "", nil, intPtr(4000000)},
	}
	for _, s := range seed {
		in := validBuyerInput()
		in.City = s.city
		if s.status != "" {
			in.Status = strPtr(s.status)
		}
		in.BudgetMin = s.min
		in.BudgetMax = s.max
		_, err := buyerSvc.Create(context.Background(), owner, in)
		require.NoError(t, err)
	}

	got, err := NewStatsService(repo).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.Total)
	assert.Equal(t, int64(2), got.ByCity["Mohali"])
	assert.Equal(t, int64(1), got.ByCity["Panchkula"])
	assert.Equal(t, int64(1), got.ByStatus["Qualified"])
	assert.Equal(t, int64(2), got.ByStatus["New"])

	// Averages divide only over rows carrying the bound.
	assert.Equal(t, "2500000.00", got.AvgBudgetMin)
	assert.Equal(t, "4500000.00", got.AvgBudgetMax)
}

func TestAverage_FixedTwoDecimals(t *testing.T) {
	assert.Equal(t, "0.00", average(0, 0))
	assert.Equal(t, "3333333.33", average(10000000, 3))
	assert.Equal(t, "5000000.00", average(10000000, 2))
}
