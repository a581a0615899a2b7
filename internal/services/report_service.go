package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"furfolio/internal/cache"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
	"furfolio/internal/log"
)

// clock lets tests pin the reference time for named periods.
type clock func() time.Time

// ReportService produces financial reports from the stored charges and
// expenses. Results are memoized in an LRU with TTL; any mutation purges
// the cache through the hook wired into ChargeService.
type ReportService struct {
	charges  ledger.ChargeStore
	expenses ledger.ExpenseStore
	engine   *core.ReportEngine
	cache    *cache.LRU[core.FinancialReport]
	logger   *log.Logger
	now      clock
}

func NewReportService(charges ledger.ChargeStore, expenses ledger.ExpenseStore, engine *core.ReportEngine, reportCache *cache.LRU[core.FinancialReport], logger *log.Logger) *ReportService {
	return &ReportService{
		charges:  charges,
		expenses: expenses,
		engine:   engine,
		cache:    reportCache,
		logger:   logger.WithComponent(log.ComponentReport),
		now:      time.Now,
	}
}

// Generate fetches both collections concurrently and runs the report
// engine over them.
func (s *ReportService) Generate(ctx context.Context, period core.Period) (core.FinancialReport, error) {
	now := s.now()
	key := cacheKey(period, now)

	if s.cache != nil {
		if report, ok := s.cache.Get(key); ok {
			s.logger.DebugContext(ctx, "Report served from cache", log.FieldPeriod, string(period.Kind))
			return report, nil
		}
	}

	var (
		charges  []core.Charge
		expenses []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		charges, err = s.charges.FetchAllCharges(gctx)
		if err != nil {
			return fmt.Errorf("fetch charges: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.FetchAllExpenses(gctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.FinancialReport{}, err
	}

	report, err := s.engine.Generate(period, charges, expenses, now)
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("generate report: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(key, report)
	}

	fields := log.NewFields().WithOperation(log.OpReport).WithPeriod(string(period.Kind))
	fields[log.FieldRangeStart] = report.Range.Start
	fields[log.FieldRangeEnd] = report.Range.End
	fields["total_revenue_cents"] = report.TotalRevenue.Cents
	fields["total_expenses_cents"] = report.TotalExpenses.Cents
	s.logger.InfoContext(ctx, "Report generated", fields.ToSlice()...)
	return report, nil
}

// Invalidate drops every cached report. Wired as the mutation hook of
// ChargeService.
func (s *ReportService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// cacheKey buckets named periods per minute so repeated dashboard refreshes
// hit the cache while the window still tracks the current time.
func cacheKey(period core.Period, now time.Time) string {
	if period.Kind == core.PeriodCustom {
		return fmt.Sprintf("custom|%d|%d", period.Start.Unix(), period.End.Unix())
	}
	return fmt.Sprintf("%s|%d", period.Kind, now.Truncate(time.Minute).Unix())
}
