// Package dashboard assembles the chart-ready view of a user's records:
// one snapshot fetch, every report series derived from it, and a guard so
// a slow response never overwrites a newer one.
package dashboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codewithmeedev/personal-finance-manager/internal/api"
	"github.com/codewithmeedev/personal-finance-manager/internal/cache"
	"github.com/codewithmeedev/personal-finance-manager/internal/core"
	applog "github.com/codewithmeedev/personal-finance-manager/internal/log"
	"github.com/codewithmeedev/personal-finance-manager/internal/report"
)

// Store is the slice of the record store the dashboard needs. *api.Client
// implements it.
type Store interface {
	List(ctx context.Context, params api.ListParams) (api.ListResult, error)
	ListAll(ctx context.Context) ([]core.Record, error)
	Create(ctx context.Context, draft core.RecordDraft) (core.Record, error)
	Update(ctx context.Context, recordID string, draft core.RecordDraft) (core.Record, error)
	Delete(ctx context.Context, recordID string) (string, error)
}

// Snapshot is one fully derived dashboard: the paged table plus every
// chart series, all computed from the same record snapshot and the same
// reference time.
type Snapshot struct {
	Table            api.ListResult
	Balance          report.Series
	WeeklyExpenses   report.Series
	MonthTotals      report.MonthTotals
	ExpenseBreakdown report.DoughnutData
	IncomeBreakdown  report.DoughnutData
	GeneratedAt      time.Time
}

// Service loads snapshots, caches them briefly and invalidates on every
// mutation that goes through it.
type Service struct {
	store    Store
	clock    func() time.Time
	colors   report.ColorTable
	logger   *applog.Logger
	cache    *cache.LRUCache[Snapshot]
	daysBack int
	gen      atomic.Uint64
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the reference time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithColors replaces the category color table used for doughnut data.
func WithColors(colors report.ColorTable) Option {
	return func(s *Service) { s.colors = colors }
}

// WithLogger replaces the default logger.
func WithLogger(l *applog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDaysBack sets the balance chart window in days.
func WithDaysBack(days int) Option {
	return func(s *Service) { s.daysBack = days }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clock:    time.Now,
		logger:   applog.New(applog.Config{Component: applog.ComponentDashboard}),
		cache:    cache.NewLRUCache[Snapshot](16, 5*time.Minute),
		daysBack: report.DefaultDaysBack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the dashboard for the given table page, serving a cached
// snapshot when one is fresh. The record snapshot and the table page are
// fetched concurrently; the reference time is captured once so every
// series agrees on what "today" means.
func (s *Service) Load(ctx context.Context, params api.ListParams) (Snapshot, error) {
	key := s.cacheKey(params)
	if snap, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "dashboard cache hit")
		return snap, nil
	}

	snap, err := s.load(ctx, params)
	if err != nil {
		return Snapshot{}, err
	}
	s.cache.Set(key, snap)
	return snap, nil
}

// Refresh reloads the dashboard, bypassing the cache. The boolean reports
// whether the result was applied: when another Refresh started after this
// one, the late result is discarded instead of overwriting newer state.
func (s *Service) Refresh(ctx context.Context, params api.ListParams) (Snapshot, bool, error) {
	gen := s.gen.Add(1)

	snap, err := s.load(ctx, params)
	if err != nil {
		return Snapshot{}, false, err
	}
	if s.gen.Load() != gen {
		s.logger.DebugContext(ctx, "discarding stale dashboard refresh")
		return Snapshot{}, false, nil
	}
	s.cache.Set(s.cacheKey(params), snap)
	return snap, true, nil
}

func (s *Service) load(ctx context.Context, params api.ListParams) (Snapshot, error) {
	now := s.clock()

	var (
		all   []core.Record
		table api.ListResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.store.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("load record snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		table, err = s.store.List(gctx, params)
		if err != nil {
			return fmt.Errorf("load table page: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	totals := report.ComputeCategoryTotals(all)
	snap := Snapshot{
		Table:            table,
		Balance:          report.BalanceOverTime(all, s.daysBack, now),
		WeeklyExpenses:   report.Last7DaysExpenses(all, now),
		MonthTotals:      report.TotalsForMonth(all, now.Month(), now.Year(), now.Location()),
		ExpenseBreakdown: report.MapToDoughnutData(totals.Expense, s.colors),
		IncomeBreakdown:  report.MapToDoughnutData(totals.Income, s.colors),
		GeneratedAt:      now,
	}
	s.logger.DebugContext(ctx, "dashboard loaded",
		applog.FieldTotal, table.Total,
		"records", len(all))
	return snap, nil
}

// Create stores a new record and drops every cached snapshot.
func (s *Service) Create(ctx context.Context, draft core.RecordDraft) (core.Record, error) {
	created, err := s.store.Create(ctx, draft)
	if err != nil {
		return core.Record{}, err
	}
	s.invalidate()
	return created, nil
}

// Update patches a record and drops every cached snapshot.
func (s *Service) Update(ctx context.Context, recordID string, draft core.RecordDraft) (core.Record, error) {
	updated, err := s.store.Update(ctx, recordID, draft)
	if err != nil {
		return core.Record{}, err
	}
	s.invalidate()
	return updated, nil
}

// Delete removes a record and drops every cached snapshot.
func (s *Service) Delete(ctx context.Context, recordID string) (string, error) {
	msg, err := s.store.Delete(ctx, recordID)
	if err != nil {
		return "", err
	}
	s.invalidate()
	return msg, nil
}

func (s *Service) invalidate() {
	s.cache.Clear()
}

// cacheKey buckets snapshots by table page and local day, so a dashboard
// computed yesterday is never served today even within the TTL.
func (s *Service) cacheKey(params api.ListParams) string {
	return fmt.Sprintf("%s|%d|%d|%s|%s|%d",
		s.clock().Format("2006-01-02"),
		params.Skip, params.Limit, params.Category, params.SortField, params.SortOrder)
}
