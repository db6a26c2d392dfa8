package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domainActivity "github.com/wasched/wasched/domains/activity"
	domainConnection "github.com/wasched/wasched/domains/connection"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
)

// SyncService runs the two polling tasks behind the dashboard: the
// connection status check and the scheduled-list refresh. Ticks are not
// serialized against each other; a slow fetch and the next tick may
// overlap and the last write wins. It implements
// schedule.IScheduleRefresher for out-of-cycle refreshes.
type SyncService struct {
	connAPI  domainConnection.IConnectionAPI
	api      domainSchedule.IScheduleAPI
	conn     domainConnection.IConnectionUsecase
	view     domainSchedule.IViewUsecase
	activity domainActivity.IActivityUsecase

	statusInterval    time.Duration
	scheduledInterval time.Duration

	mu            sync.Mutex
	cancel        context.CancelFunc
	statusFailing bool
}

var _ domainSchedule.IScheduleRefresher = (*SyncService)(nil)

func NewSyncService(
	connAPI domainConnection.IConnectionAPI,
	api domainSchedule.IScheduleAPI,
	conn domainConnection.IConnectionUsecase,
	view domainSchedule.IViewUsecase,
	activity domainActivity.IActivityUsecase,
	statusInterval, scheduledInterval time.Duration,
) *SyncService {
	if statusInterval <= 0 {
		statusInterval = 10 * time.Second
	}
	if scheduledInterval <= 0 {
		scheduledInterval = 30 * time.Second
	}
	return &SyncService{
		connAPI:           connAPI,
		api:               api,
		conn:              conn,
		view:              view,
		activity:          activity,
		statusInterval:    statusInterval,
		scheduledInterval: scheduledInterval,
	}
}

// Start launches both polling loops. Each runs once immediately, then
// on its own ticker until the context is cancelled or Stop is called.
func (s *SyncService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"status_interval":    s.statusInterval.String(),
		"scheduled_interval": s.scheduledInterval.String(),
	}).Info("[SYNC] starting polling loops")

	go s.runLoop(ctx, s.statusInterval, s.CheckStatus)
	go s.runLoop(ctx, s.scheduledInterval, s.RefreshScheduled)
}

// Stop cancels both loops. No further ticks fire after it returns;
// a fetch already in flight runs to completion.
func (s *SyncService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *SyncService) runLoop(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// CheckStatus polls the backend session status and updates the shared
// connection state. A connect transition is journaled; repeated polls
// of an unchanged state are not. Consecutive check failures journal
// only once per failure streak.
func (s *SyncService) CheckStatus(ctx context.Context) {
	status, err := s.connAPI.Status(ctx)
	if err != nil {
		logrus.WithError(err).Warn("[SYNC] status check failed")
		if s.enterStatusFailure() {
			s.activity.Append(domainActivity.KindError, domainActivity.StatusError,
				"Failed to check WhatsApp status", err.Error())
		}
		return
	}
	s.clearStatusFailure()

	changed := s.conn.Set(domainConnection.State{Connected: status.IsReady})
	if changed && status.IsReady {
		s.activity.Append(domainActivity.KindConnection, domainActivity.StatusSuccess,
			"WhatsApp connection established", "")
	}
}

// RefreshScheduled fetches the scheduled list and replaces the view
// snapshot. A failed fetch keeps the previous snapshot.
func (s *SyncService) RefreshScheduled(ctx context.Context) {
	records, err := s.api.ListScheduled(ctx)
	if err != nil {
		logrus.WithError(err).Warn("[SYNC] scheduled list refresh failed")
		return
	}
	s.view.Update(records)
}

func (s *SyncService) enterStatusFailure() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusFailing {
		return false
	}
	s.statusFailing = true
	return true
}

func (s *SyncService) clearStatusFailure() {
	s.mu.Lock()
	s.statusFailing = false
	s.mu.Unlock()
}
