package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRefresher counts refresh calls for testing.
type mockRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *mockRefresher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestScheduler_StartRefreshesImmediately(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewScheduler(refresher)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return refresher.Calls() >= 1
	}, time.Second, 10*time.Millisecond, "initial refresh did not run")
}

func TestScheduler_RefreshOnStartDisabled(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewScheduler(refresher).
		WithRefreshOnStart(false).
		WithCron("0 0 1 1 *")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, refresher.Calls())
}

func TestScheduler_StartTwiceFails(t *testing.T) {
	s := NewScheduler(&mockRefresher{})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "already started")
}

func TestScheduler_StartRejectsInvalidCron(t *testing.T) {
	s := NewScheduler(&mockRefresher{}).WithCron("not a cron expression")

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid cron expression")
}

func TestScheduler_StopAllowsRestart(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewScheduler(refresher)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.GreaterOrEqual(t, refresher.Calls(), 2)
}

func TestScheduler_RefreshNow(t *testing.T) {
	refresher := &mockRefresher{}
	s := NewScheduler(refresher)

	require.NoError(t, s.RefreshNow(context.Background()))
	assert.Equal(t, 1, refresher.Calls())
}

func TestScheduler_RefreshNowPropagatesError(t *testing.T) {
	wantErr := errors.New("store down")
	s := NewScheduler(&mockRefresher{err: wantErr})

	err := s.RefreshNow(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestScheduler_FailedRefreshKeepsLoopRunning(t *testing.T) {
	refresher := &mockRefresher{err: errors.New("store down")}
	s := NewScheduler(refresher)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return refresher.Calls() >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_NextRun(t *testing.T) {
	s := NewScheduler(&mockRefresher{}).WithCron("0 3 * * *")

	next, err := s.NextRun()
	require.NoError(t, err)

	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestScheduler_ValidateCron(t *testing.T) {
	s := NewScheduler(&mockRefresher{})

	assert.NoError(t, s.ValidateCron("*/5 * * * *"))
	assert.NoError(t, s.ValidateCron("0 3 * * 1"))
	assert.Error(t, s.ValidateCron("every five minutes"))
	assert.Error(t, s.ValidateCron("* * * *"))
}
