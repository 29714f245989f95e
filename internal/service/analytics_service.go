package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/cache"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/domain/analytics"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	kindCategories = "categories"
	kindBudget     = "budget"
)

// CachedAnalytics is one cached analytics result. Exactly one field is set.
type CachedAnalytics struct {
	Categories []analytics.CategoryTotal
	Budget     *analytics.BudgetAnalytics
}

// AnalyticsCache holds computed results keyed by user, kind and period.
type AnalyticsCache = cache.LRUCache[CachedAnalytics]

// NewAnalyticsCache creates a cache for AnalyticsService. A size or ttl of
// zero disables caching.
func NewAnalyticsCache(size int, ttl time.Duration) *AnalyticsCache {
	return cache.NewLRUCache[CachedAnalytics](size, ttl)
}

// NewCacheInvalidator returns an event handler that drops every cached
// result of the user an event belongs to.
func NewCacheInvalidator(c *AnalyticsCache) events.EventHandler {
	return events.HandlerFunc(func(_ context.Context, event *events.Event) error {
		c.DeletePrefix(userCachePrefix(event.UserID))
		return nil
	})
}

// AnalyticsService answers the read-only analytics queries for a user.
type AnalyticsService interface {
	// SummarizeCategories totals expense spending per category in period.
	SummarizeCategories(ctx context.Context, userID uuid.UUID, period domain.Period) ([]analytics.CategoryTotal, error)

	// ComputeBudgetAnalytics compares spending in period with the budgets of
	// every month the period overlaps. Budgets are not prorated: a range from
	// March 31 to April 2 is measured against the full March and April budgets.
	ComputeBudgetAnalytics(ctx context.Context, userID uuid.UUID, period domain.Period) (*analytics.BudgetAnalytics, error)
}

type analyticsService struct {
	userStore   store.UserStore
	txStore     store.TransactionStore
	budgetStore store.BudgetStore
	aggregator  analytics.Aggregator
	cache       *AnalyticsCache
	logger      *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService. resultCache may be nil.
func NewAnalyticsService(
	userStore store.UserStore,
	txStore store.TransactionStore,
	budgetStore store.BudgetStore,
	aggregator analytics.Aggregator,
	resultCache *AnalyticsCache,
	logger *slog.Logger,
) (AnalyticsService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if txStore == nil {
		return nil, fmt.Errorf("txStore cannot be nil")
	}
	if budgetStore == nil {
		return nil, fmt.Errorf("budgetStore cannot be nil")
	}
	if aggregator == nil {
		return nil, fmt.Errorf("aggregator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &analyticsService{
		userStore:   userStore,
		txStore:     txStore,
		budgetStore: budgetStore,
		aggregator:  aggregator,
		cache:       resultCache,
		logger:      logger.With(slog.String("component", "analytics_service")),
	}, nil
}

func (s *analyticsService) SummarizeCategories(
	ctx context.Context,
	userID uuid.UUID,
	period domain.Period,
) ([]analytics.CategoryTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, NewServiceError("analytics", "summarize_categories", err)
	}

	key := cacheKey(userID, kindCategories, period)
	gen := s.generation(userID)
	if cached, ok := s.lookup(key); ok {
		return copyTotals(cached.Categories), nil
	}

	txs, err := s.txStore.ListBetween(ctx, userID, period.Start, period.End)
	if err != nil {
		s.logReadFailure(ctx, "transactions", err)
		return nil, NewServiceError("analytics", "summarize_categories", err)
	}

	totals, err := s.aggregator.SummarizeCategories(txs, period)
	if err != nil {
		return nil, NewServiceError("analytics", "summarize_categories", err)
	}

	s.remember(userID, gen, key, CachedAnalytics{Categories: copyTotals(totals)})
	return totals, nil
}

func (s *analyticsService) ComputeBudgetAnalytics(
	ctx context.Context,
	userID uuid.UUID,
	period domain.Period,
) (*analytics.BudgetAnalytics, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, NewServiceError("analytics", "budget_analytics", err)
	}

	key := cacheKey(userID, kindBudget, period)
	gen := s.generation(userID)
	if cached, ok := s.lookup(key); ok {
		return copyBudgetAnalytics(cached.Budget), nil
	}

	var (
		txs     []*domain.Transaction
		budgets []*domain.Budget
	)
	firstMonth, lastMonth := period.MonthLabels()

	// The first failing read cancels the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txStore.ListBetween(gctx, userID, period.Start, period.End)
		if err != nil {
			s.logReadFailure(ctx, "transactions", err)
		}
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetStore.ListForMonths(gctx, userID, firstMonth, lastMonth)
		if err != nil {
			s.logReadFailure(ctx, "budgets", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewServiceError("analytics", "budget_analytics", err)
	}

	result, err := s.aggregator.ComputeBudgetAnalytics(txs, domain.BudgetMapping(budgets), period)
	if err != nil {
		return nil, NewServiceError("analytics", "budget_analytics", err)
	}

	s.remember(userID, gen, key, CachedAnalytics{Budget: copyBudgetAnalytics(result)})
	return result, nil
}

// ensureUser confirms the principal still exists.
func (s *analyticsService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.userStore.GetByID(ctx, userID)
	return err
}

func (s *analyticsService) logReadFailure(ctx context.Context, what string, err error) {
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to read "+what+" for analytics",
		slog.String("error", err.Error()),
		slog.Bool("unavailable", store.IsUnavailableError(err)))
}

func (s *analyticsService) lookup(key string) (CachedAnalytics, bool) {
	if s.cache == nil {
		return CachedAnalytics{}, false
	}
	return s.cache.Get(key)
}

// generation must be read before the store reads whose result is cached.
func (s *analyticsService) generation(userID uuid.UUID) uint64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Generation(userCachePrefix(userID))
}

// remember drops value if the user's results were invalidated after gen was read.
func (s *analyticsService) remember(userID uuid.UUID, gen uint64, key string, value CachedAnalytics) {
	if s.cache != nil {
		s.cache.SetIfGeneration(userCachePrefix(userID), gen, key, value)
	}
}

func userCachePrefix(userID uuid.UUID) string {
	return userID.String() + ":"
}

func cacheKey(userID uuid.UUID, kind string, period domain.Period) string {
	return userCachePrefix(userID) + kind + ":" + period.Key()
}

func copyTotals(in []analytics.CategoryTotal) []analytics.CategoryTotal {
	out := make([]analytics.CategoryTotal, len(in))
	copy(out, in)
	return out
}

func copyBudgetAnalytics(in *analytics.BudgetAnalytics) *analytics.BudgetAnalytics {
	if in == nil {
		return nil
	}
	out := *in
	out.Breakdown = make([]analytics.CategorySummary, len(in.Breakdown))
	copy(out.Breakdown, in.Breakdown)
	return &out
}
