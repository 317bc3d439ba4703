package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"petclinic/internal/http-api/repository"
)

// dueBatchSize caps how many due schedules one tick processes.
const dueBatchSize = 50

// DefaultSchedulerInterval is the poll period when none is configured.
const DefaultSchedulerInterval = 60 * time.Second

// Scheduler polls the notification_schedules table and materializes due
// reminders into delivered notifications. Each row is claimed at the storage
// layer before it is dispatched, so concurrent poller instances cannot
// double-deliver the same schedule.
type Scheduler struct {
	scheduleRepo repository.ScheduleRepository
	dispatcher   NotificationService
	interval     time.Duration
	now          func() time.Time
	logger       *slog.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

func NewScheduler(
	scheduleRepo repository.ScheduleRepository,
	dispatcher NotificationService,
	interval time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		scheduleRepo: scheduleRepo,
		dispatcher:   dispatcher,
		interval:     interval,
		now:          now,
		logger:       logger,
	}
}

// Start launches the polling loop. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(ctx, s.stopCh, s.doneCh)
	s.logger.Info("notification scheduler started", "interval", s.interval)
}

// Stop halts the polling loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done
	s.logger.Info("notification scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			if _, err := s.DeliverDueNotifications(ctx); err != nil {
				s.logger.Error("failed to fetch due notification schedules", "error", err)
			}
		}
	}
}

// DeliverDueNotifications runs one poll tick: fetch due unsent schedules,
// claim each one, then dispatch it through the engine. A failed dispatch
// releases the claim so the next tick retries it; it never blocks the
// remaining due items.
func (s *Scheduler) DeliverDueNotifications(ctx context.Context) (int, error) {
	schedules, err := s.scheduleRepo.GetDue(ctx, s.now(), dueBatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, schedule := range schedules {
		claimed, err := s.scheduleRepo.MarkSent(ctx, schedule.ID, s.now())
		if err != nil {
			s.logger.Error("failed to claim notification schedule", "schedule_id", schedule.ID, "error", err)
			continue
		}
		if !claimed {
			// Another poller instance claimed this row between our fetch and
			// the update.
			s.logger.Warn("schedule already claimed", "schedule_id", schedule.ID)
			continue
		}

		payload := schedule.DecodedPayload()

		metadata := map[string]any{}
		for k, v := range payload.Metadata {
			metadata[k] = v
		}
		if schedule.AppointmentID != nil {
			metadata["appointment_id"] = *schedule.AppointmentID
		}

		if _, err := s.dispatcher.DispatchImmediate(ctx, schedule.UserID, schedule.Type, payload.Message, metadata); err != nil {
			s.logger.Error("failed to create scheduled notification", "schedule_id", schedule.ID, "error", err)
			if relErr := s.scheduleRepo.Release(ctx, schedule.ID); relErr != nil {
				s.logger.Error("failed to release notification schedule", "schedule_id", schedule.ID, "error", relErr)
			}
			continue
		}
		delivered++
	}

	return delivered, nil
}
