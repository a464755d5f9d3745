package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/best-combination/internal/knapsack"
	"github.com/eugenenazirov/best-combination/internal/metrics"
	"github.com/eugenenazirov/best-combination/internal/storage"
)

type dpSolver struct {
	rescaler knapsack.Rescaler
	logger   *zap.Logger
	cache    storage.Storage
	metrics  *metrics.Metrics
}

// Option configures the solver.
type Option func(*dpSolver)

// WithLogger sets the logger used for per-request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *dpSolver) {
		s.logger = logger
	}
}

// WithCache enables result caching. Passing nil disables it.
func WithCache(cache storage.Storage) Option {
	return func(s *dpSolver) {
		s.cache = cache
	}
}

// WithMetrics records solve outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *dpSolver) {
		s.metrics = m
	}
}

// New creates a Solver backed by the knapsack dynamic program.
func New(rescaler knapsack.Rescaler, opts ...Option) Solver {
	s := &dpSolver{
		rescaler: rescaler,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *dpSolver) Solve(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		s.metrics.ObserveSolve(metrics.OutcomeCanceled, 0)
		return Result{}, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	var key uint64
	if s.cache != nil {
		key = Fingerprint(s.rescaler.Decimals(), req)
		if entry, ok := s.cache.Get(key); ok {
			s.metrics.CacheHit()
			s.metrics.ObserveSolve(metrics.OutcomeCached, 0)
			return resultFromEntry(entry), nil
		}
		s.metrics.CacheMiss()
	}

	start := time.Now()
	result, err := s.solve(req)
	elapsed := time.Since(start)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, knapsack.ErrTableTooLarge) {
			outcome = metrics.OutcomeTooLarge
		}
		s.metrics.ObserveSolve(outcome, elapsed)
		s.logger.Warn("best combination failed",
			zap.Int("items", len(req.Items)),
			zap.String("max_weight", req.MaxWeight.String()),
			zap.Error(err),
		)
		return Result{}, err
	}
	s.metrics.ObserveSolve(metrics.OutcomeSuccess, elapsed)

	if s.cache != nil {
		s.cache.Put(key, storage.Entry{
			IDs:         result.IDs,
			TotalPrice:  result.TotalPrice,
			TotalWeight: result.TotalWeight,
			TableCells:  result.TableCells,
		})
	}

	s.logger.Info("best combination found",
		zap.Ints("ids", result.IDs),
		zap.String("total_price", result.TotalPrice.String()),
		zap.String("total_weight", result.TotalWeight.String()),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (s *dpSolver) solve(req Request) (Result, error) {
	capacity := s.rescaler.Rescale(req.MaxWeight)
	items := make([]knapsack.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = knapsack.Item{
			ID:     item.ID,
			Weight: s.rescaler.Rescale(item.Weight),
			Price:  item.Price,
		}
	}

	table, err := knapsack.Build(items, capacity)
	if err != nil {
		return Result{}, fmt.Errorf("build combination table: %w", err)
	}
	s.metrics.ObserveTable(table.Cells())
	s.logger.Debug("combination table built",
		zap.Int("rows", table.Rows()),
		zap.Int("cols", table.Cols()),
		zap.Stringer("last", table.Last()),
	)

	chosen, err := knapsack.Reconstruct(table, items)
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct best combination: %w", err)
	}

	// Totals are reported in table units, so weights finer than the
	// configured precision appear truncated.
	best := table.Last()
	return Result{
		IDs:         chosen.Sorted(),
		TotalPrice:  best.Price,
		TotalWeight: s.rescaler.Unscale(best.Weight),
		TableCells:  table.Cells(),
	}, nil
}

func resultFromEntry(entry storage.Entry) Result {
	return Result{
		IDs:         entry.IDs,
		TotalPrice:  entry.TotalPrice,
		TotalWeight: entry.TotalWeight,
		TableCells:  entry.TableCells,
		Cached:      true,
	}
}
