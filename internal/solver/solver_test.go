package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/best-combination/internal/knapsack"
	"github.com/eugenenazirov/best-combination/internal/metrics"
	"github.com/eugenenazirov/best-combination/internal/storage"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestSolver(t *testing.T, decimals int, opts ...Option) Solver {
	t.Helper()

	rescaler, err := knapsack.NewRescaler(decimals)
	require.NoError(t, err)
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(rescaler, opts...)
}

func TestSolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		decimals    int
		req         Request
		wantIDs     []int
		wantPrice   string
		wantWeight  string
		wantCellsGT int
	}{
		{
			name:     "DecimalWeights",
			decimals: 2,
			req: Request{
				MaxWeight: d("1.00"),
				Items: []Item{
					{ID: 1, Weight: d("0.55"), Price: d("3.00")},
					{ID: 2, Weight: d("0.50"), Price: d("2.00")},
					{ID: 3, Weight: d("0.45"), Price: d("2.00")},
				},
			},
			wantIDs:    []int{1, 3},
			wantPrice:  "5.00",
			wantWeight: "1.00",
		},
		{
			name:     "IntegerUnits",
			decimals: 0,
			req: Request{
				MaxWeight: d("50"),
				Items: []Item{
					{ID: 1, Weight: d("10"), Price: d("60")},
					{ID: 2, Weight: d("20"), Price: d("100")},
					{ID: 3, Weight: d("30"), Price: d("120")},
				},
			},
			wantIDs:    []int{2, 3},
			wantPrice:  "220",
			wantWeight: "50",
		},
		{
			name:     "TotalWeightInTableUnits",
			decimals: 1,
			req: Request{
				MaxWeight: d("2"),
				Items: []Item{
					{ID: 4, Weight: d("0.75"), Price: d("1.50")},
					{ID: 7, Weight: d("1.2"), Price: d("2.25")},
				},
			},
			wantIDs:    []int{4, 7},
			wantPrice:  "3.75",
			wantWeight: "1.9",
		},
		{
			name:       "NoItems",
			decimals:   2,
			req:        Request{MaxWeight: d("12.34")},
			wantIDs:    []int{},
			wantPrice:  "0",
			wantWeight: "0",
		},
		{
			name:     "NothingFits",
			decimals: 2,
			req: Request{
				MaxWeight: d("1.00"),
				Items:     []Item{{ID: 9, Weight: d("1.01"), Price: d("50")}},
			},
			wantIDs:    []int{},
			wantPrice:  "0",
			wantWeight: "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSolver(t, tc.decimals)
			got, err := s.Solve(context.Background(), tc.req)
			require.NoError(t, err)

			assert.Equal(t, tc.wantIDs, got.IDs)
			assert.True(t, got.TotalPrice.Equal(d(tc.wantPrice)), "price %s", got.TotalPrice)
			assert.True(t, got.TotalWeight.Equal(d(tc.wantWeight)), "weight %s", got.TotalWeight)
			assert.False(t, got.Cached)
		})
	}
}

func TestSolveReportsTableSize(t *testing.T) {
	t.Parallel()

	s := newTestSolver(t, 2)
	got, err := s.Solve(context.Background(), Request{
		MaxWeight: d("100"),
		Items:     []Item{{ID: 1, Weight: d("1"), Price: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2*10_001, got.TableCells)
}

func TestSolveHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSolver(t, 2).Solve(ctx, Request{MaxWeight: d("1")})
	assert.True(t, errors.Is(err, ErrCanceled), "got %v", err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestSolveReportsResourceExhaustion(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	s := newTestSolver(t, 6, WithMetrics(m))
	_, err = s.Solve(context.Background(), Request{
		MaxWeight: d("100000"),
		Items:     []Item{{ID: 1, Weight: d("1"), Price: d("1")}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, knapsack.ErrTableTooLarge), "got %v", err)

	assert.Equal(t, 1.0, sumCounter(t, reg, "best_combination_solve_total"))
}

func TestSolveServesRepeatedRequestsFromCache(t *testing.T) {
	t.Parallel()

	cache, err := storage.NewMemoryStorage(8)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	s := newTestSolver(t, 2, WithCache(cache), WithMetrics(m))
	req := Request{
		MaxWeight: d("0.50"),
		Items: []Item{
			{ID: 1, Weight: d("0.30"), Price: d("5")},
			{ID: 2, Weight: d("0.20"), Price: d("5")},
		},
	}

	first, err := s.Solve(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := s.Solve(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.IDs, second.IDs)
	assert.True(t, first.TotalPrice.Equal(second.TotalPrice))
	assert.Equal(t, 1, cache.Len())

	assert.Equal(t, 2.0, sumCounter(t, reg, "best_combination_solve_total"))
	assert.Equal(t, 2.0, sumCounter(t, reg, "best_combination_cache_lookups_total"))
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := Request{
		MaxWeight: d("10"),
		Items: []Item{
			{ID: 1, Weight: d("1.5"), Price: d("2")},
			{ID: 2, Weight: d("2"), Price: d("3")},
		},
	}
	same := Request{
		MaxWeight: d("10.00"),
		Items: []Item{
			{ID: 1, Weight: d("1.50"), Price: d("2.0")},
			{ID: 2, Weight: d("2"), Price: d("3")},
		},
	}
	reordered := Request{MaxWeight: base.MaxWeight, Items: []Item{base.Items[1], base.Items[0]}}

	assert.Equal(t, Fingerprint(2, base), Fingerprint(2, same))
	assert.NotEqual(t, Fingerprint(2, base), Fingerprint(3, base))
	assert.NotEqual(t, Fingerprint(2, base), Fingerprint(2, reordered))
}

// sumCounter adds up every series of the named counter family.
func sumCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
