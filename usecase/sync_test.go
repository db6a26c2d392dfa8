package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainActivity "github.com/wasched/wasched/domains/activity"
	domainConnection "github.com/wasched/wasched/domains/connection"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

// countingConnAPI tracks status polls so tests can observe ticks.
type countingConnAPI struct {
	mu        sync.Mutex
	calls     int
	status    domainConnection.StatusResponse
	statusErr error
}

func (f *countingConnAPI) Status(ctx context.Context) (domainConnection.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.status, f.statusErr
}

func (f *countingConnAPI) QR(ctx context.Context) (domainConnection.QRResponse, error) {
	return domainConnection.QRResponse{}, nil
}

func (f *countingConnAPI) Reconnect(ctx context.Context) error { return nil }

func (f *countingConnAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *countingConnAPI) set(status domainConnection.StatusResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.statusErr = err
}

func newSyncFixture(connAPI *countingConnAPI, api *fakeScheduleAPI) (*SyncService, domainConnection.IConnectionUsecase, domainSchedule.IViewUsecase, domainActivity.IActivityUsecase) {
	conn := NewConnectionService()
	view := NewViewService()
	activity := NewActivityService()
	svc := NewSyncService(connAPI, api, conn, view, activity, 10*time.Millisecond, 10*time.Millisecond)
	return svc, conn, view, activity
}

func TestSync_CheckStatusJournalsConnectTransitionOnly(t *testing.T) {
	connAPI := &countingConnAPI{status: domainConnection.StatusResponse{IsReady: true}}
	svc, conn, _, activity := newSyncFixture(connAPI, &fakeScheduleAPI{})

	svc.CheckStatus(context.Background())
	svc.CheckStatus(context.Background())
	svc.CheckStatus(context.Background())

	assert.True(t, conn.State().Connected)

	entries := activity.Entries()
	require.Len(t, entries, 1, "repeated polls of an unchanged state stay quiet")
	assert.Equal(t, "WhatsApp connection established", entries[0].Message)
	assert.Equal(t, domainActivity.KindConnection, entries[0].Kind)
}

func TestSync_CheckStatusFailureJournalsOncePerStreak(t *testing.T) {
	connAPI := &countingConnAPI{statusErr: errors.New("connection refused")}
	svc, _, _, activity := newSyncFixture(connAPI, &fakeScheduleAPI{})

	svc.CheckStatus(context.Background())
	svc.CheckStatus(context.Background())

	entries := activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Failed to check WhatsApp status", entries[0].Message)
	assert.Equal(t, domainActivity.StatusError, entries[0].Status)

	// Recovery clears the streak; the next failure journals again.
	connAPI.set(domainConnection.StatusResponse{IsReady: false}, nil)
	svc.CheckStatus(context.Background())
	connAPI.set(domainConnection.StatusResponse{}, errors.New("connection refused"))
	svc.CheckStatus(context.Background())

	assert.Len(t, activity.Entries(), 2)
}

func TestSync_RefreshScheduledUpdatesView(t *testing.T) {
	api := &fakeScheduleAPI{scheduled: []domainSchedule.ScheduledMessage{
		{ID: "1", Message: "Hello", GroupName: "Sales Team", Status: "pending"},
	}}
	svc, _, view, _ := newSyncFixture(&countingConnAPI{}, api)

	svc.RefreshScheduled(context.Background())

	items := view.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Sales Team", items[0].GroupName)
}

func TestSync_RefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	api := &fakeScheduleAPI{scheduled: []domainSchedule.ScheduledMessage{{ID: "1", GroupName: "Sales Team"}}}
	svc, _, view, _ := newSyncFixture(&countingConnAPI{}, api)

	svc.RefreshScheduled(context.Background())
	require.Len(t, view.Items(), 1)

	api.listErr = pkgError.TransportError{Op: "list", Err: errors.New("boom")}
	svc.RefreshScheduled(context.Background())

	assert.Len(t, view.Items(), 1, "failed fetch does not clear the view")
}

func TestSync_StartRunsImmediatelyAndStopHalts(t *testing.T) {
	connAPI := &countingConnAPI{status: domainConnection.StatusResponse{IsReady: true}}
	svc, _, _, _ := newSyncFixture(connAPI, &fakeScheduleAPI{})

	svc.Start(context.Background())

	require.Eventually(t, func() bool { return connAPI.callCount() >= 2 },
		time.Second, 5*time.Millisecond, "initial run plus at least one tick")

	svc.Stop()
	time.Sleep(30 * time.Millisecond)
	settled := connAPI.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, connAPI.callCount(), "no ticks after Stop")
}

func TestSync_CancelledContextHaltsLoops(t *testing.T) {
	connAPI := &countingConnAPI{}
	svc, _, _, _ := newSyncFixture(connAPI, &fakeScheduleAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	require.Eventually(t, func() bool { return connAPI.callCount() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := connAPI.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, connAPI.callCount())
}
