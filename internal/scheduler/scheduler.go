// Package scheduler runs the daily background jobs: releasing subscriptions
// whose end date has passed and queueing expiry reminders.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/analytics"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/notify"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

type Expirer interface {
	ExpireOverdue(ctx context.Context) ([]uuid.UUID, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

type TenantLister interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type ExpiryFinder interface {
	UpcomingExpirations(ctx context.Context, tenantID uuid.UUID, offsets []int) ([]analytics.Expiring, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, r notify.Reminder) error
}

// Deps are the services the jobs call. Reminders may be nil, in which case
// the reminder job is not registered.
type Deps struct {
	Ledger    Expirer
	Cache     Invalidator
	Tenants   TenantLister
	Expiries  ExpiryFinder
	Reminders Enqueuer
}

type Scheduler struct {
	cron *cron.Cron
	deps Deps
}

func New(loc *time.Location, deps Deps) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		deps: deps,
	}
}

// Register adds both jobs with standard five-field cron specs.
func (s *Scheduler) Register(expirySpec, reminderSpec string) error {
	if _, err := s.cron.AddFunc(expirySpec, s.job("expiry sweep", s.SweepExpired)); err != nil {
		return fmt.Errorf("register expiry sweep %q: %w", expirySpec, err)
	}
	if s.deps.Reminders == nil {
		logger.Warn("reminder queue not configured, reminder job disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.job("reminder fan-out", s.SendReminders)); err != nil {
		return fmt.Errorf("register reminder job %q: %w", reminderSpec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("scheduler stopped")
	case <-ctx.Done():
		logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) job(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			logger.WithError(err).Error("scheduled job failed", "job", name)
			return
		}
		logger.Info("scheduled job finished", "job", name, "duration", time.Since(start).String())
	}
}

// SweepExpired deactivates overdue subscriptions and drops the cached
// dashboard views of every gym that had one.
func (s *Scheduler) SweepExpired(ctx context.Context) error {
	tenants, err := s.deps.Ledger.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	if s.deps.Cache == nil {
		return nil
	}
	for _, id := range tenants {
		s.deps.Cache.Invalidate(ctx, id)
	}
	return nil
}

// SendReminders queues one reminder per subscription ending within the
// default window, across all active gyms. A failing gym does not stop the
// others.
func (s *Scheduler) SendReminders(ctx context.Context) error {
	if s.deps.Reminders == nil {
		return nil
	}

	tenants, err := s.deps.Tenants.ListActiveIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	queued := 0
	for _, tenantID := range tenants {
		rows, err := s.deps.Expiries.UpcomingExpirations(ctx, tenantID, analytics.DefaultExpiryOffsets)
		if err != nil {
			errs = append(errs, fmt.Errorf("gym %s: %w", tenantID, err))
			continue
		}
		for _, row := range rows {
			if row.PhoneNumber == "" {
				continue
			}
			err := s.deps.Reminders.Enqueue(ctx, notify.Reminder{
				TenantID:  tenantID,
				UserID:    row.UserID,
				Phone:     row.PhoneNumber,
				FirstName: row.FirstName,
				EndDate:   row.EndDate,
				DaysLeft:  row.DaysLeft,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("gym %s: %w", tenantID, err))
				continue
			}
			queued++
		}
	}

	logger.Info("expiry reminders queued", "count", queued, "gyms", len(tenants))
	return errors.Join(errs...)
}
