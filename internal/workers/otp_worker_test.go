package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"jobhunt_backend/internal/repositories"
)

// sweepRepo реализует только ClearExpiredOTPs; остальные методы не вызываются
type sweepRepo struct {
	repositories.UserRepository

	mu      sync.Mutex
	cutoffs []int64
	cleared int64
	err     error
}

func (r *sweepRepo) ClearExpiredOTPs(db *gorm.DB, expiredBeforeMs int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, expiredBeforeMs)
	return r.cleared, r.err
}

func (r *sweepRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cutoffs)
}

func TestOTPWorker_SweepCutoff(t *testing.T) {
	repo := &sweepRepo{cleared: 2}
	w := NewOTPWorker(nil, repo, time.Hour, 24*time.Hour)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	assert.Equal(t, int64(2), w.Sweep())
	assert.Equal(t, []int64{now.Add(-24 * time.Hour).UnixMilli()}, repo.cutoffs)
}

func TestOTPWorker_SweepError(t *testing.T) {
	repo := &sweepRepo{err: errors.New("db down")}
	w := NewOTPWorker(nil, repo, time.Hour, time.Hour)

	assert.Equal(t, int64(0), w.Sweep())
}

func TestOTPWorker_StopsOnCancel(t *testing.T) {
	repo := &sweepRepo{}
	w := NewOTPWorker(nil, repo, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool { return repo.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(20 * time.Millisecond)
	stopped := repo.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, repo.calls())
}
