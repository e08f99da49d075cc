// Package scheduler runs the nightly report digest.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"barback/internal/domain/period"
	"barback/internal/domain/pnl"
	"barback/internal/infrastructure/storage/postgres"
	"barback/pkg/logger"
)

// Scheduler computes the prior day's statement on a cron schedule. The
// run warms the report cache for the dashboard's opening queries and
// leaves a digest in the logs for the morning shift.
type Scheduler struct {
	cron    *cron.Cron
	reports *pnl.Service
	pool    *postgres.Pool
	spec    string
	log     *logger.Logger
}

// New creates a scheduler. spec is a standard five-field cron expression.
func New(reports *pnl.Service, pool *postgres.Pool, spec string, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		reports: reports,
		pool:    pool,
		spec:    spec,
		log:     log.WithComponent("scheduler"),
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDigest); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "spec", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Infow("scheduler stopped")
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	day := period.Normalize(yesterday)
	r := period.Range{Start: day, End: day}

	statement, err := s.reports.CalculatePnL(ctx, r)
	if err != nil {
		s.log.Errorw("nightly digest failed", "date", period.Format(day), "error", err)
		return
	}
	// Warm the ranges the dashboard asks for on open: yesterday's
	// breakdown and month-to-date. Other ranges populate on demand.
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, warm := range []period.Range{r, {Start: monthStart, End: day}} {
		if _, err := s.reports.GenerateBreakdown(ctx, warm); err != nil {
			s.log.Warnw("breakdown warmup failed",
				"start", period.Format(warm.Start), "end", period.Format(warm.End), "error", err)
		}
	}

	s.log.Infow("nightly digest",
		"date", period.Format(day),
		"revenue", statement.Revenue,
		"gross_profit", statement.GrossProfit,
		"net_income", statement.NetIncome,
		"transactions", statement.Transactions,
		"units_sold", statement.UnitsSold,
	)
	if s.pool != nil {
		postgres.LogPoolStats(ctx, s.pool)
	}
}
