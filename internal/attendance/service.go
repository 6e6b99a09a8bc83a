package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCheckedIn = apperr.Conflict("already checked in today")
	ErrUserNotFound     = apperr.NotFound("user")
	ErrInvalidRange     = apperr.Validation("from must not be after to")
)

// defaultHistoryDays bounds ListForUser when no range is given.
const defaultHistoryDays = 30

type Service interface {
	CheckIn(ctx context.Context, tenantID, userID uuid.UUID) (*Attendance, error)
	ListByDate(ctx context.Context, tenantID uuid.UUID, date *time.Time) ([]AttendanceWithUser, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID, from, to *time.Time) ([]Attendance, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		clock: clk,
	}
}

func (s *service) CheckIn(ctx context.Context, tenantID, userID uuid.UUID) (*Attendance, error) {
	ok, err := s.repo.UserInTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, apperr.Wrap("check user", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	today := clock.Today(s.clock)
	done, err := s.repo.HasCheckedIn(ctx, tenantID, userID, today)
	if err != nil {
		return nil, apperr.Wrap("check attendance", err)
	}
	if done {
		metrics.RecordCheckIn("duplicate")
		return nil, ErrAlreadyCheckedIn
	}

	a, err := s.repo.Create(ctx, &Attendance{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Date:     today,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCheckedIn) {
			metrics.RecordCheckIn("duplicate")
		}
		return nil, apperr.Wrap("check in", err)
	}

	metrics.RecordCheckIn("ok")
	logger.Debug("check-in recorded", "gym_id", tenantID, "user_id", userID, "date", clock.DateKey(today))
	return a, nil
}

// ListByDate lists the day's check-ins; a nil date means today.
func (s *service) ListByDate(ctx context.Context, tenantID uuid.UUID, date *time.Time) ([]AttendanceWithUser, error) {
	day := clock.Today(s.clock)
	if date != nil {
		day = clock.BeginningOfDay(*date)
	}

	rows, err := s.repo.ListByDate(ctx, tenantID, day)
	return rows, apperr.Wrap("list attendance", err)
}

func (s *service) ListForUser(ctx context.Context, tenantID, userID uuid.UUID, from, to *time.Time) ([]Attendance, error) {
	end := clock.Today(s.clock)
	if to != nil {
		end = clock.BeginningOfDay(*to)
	}
	start := end.AddDate(0, 0, -defaultHistoryDays)
	if from != nil {
		start = clock.BeginningOfDay(*from)
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	rows, err := s.repo.ListForUser(ctx, tenantID, userID, start, end)
	return rows, apperr.Wrap("list user attendance", err)
}
