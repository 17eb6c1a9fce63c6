package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/repositories"
)

// OTPWorker очищает просроченные коды у неподтвержденных аккаунтов
type OTPWorker struct {
	db         *gorm.DB
	userRepo   repositories.UserRepository
	interval   time.Duration
	sweepAfter time.Duration
	now        func() time.Time
}

func NewOTPWorker(db *gorm.DB, userRepo repositories.UserRepository, interval, sweepAfter time.Duration) *OTPWorker {
	return &OTPWorker{
		db:         db,
		userRepo:   userRepo,
		interval:   interval,
		sweepAfter: sweepAfter,
		now:        time.Now,
	}
}

// Start запускает фоновую очистку; остановка по отмене ctx
func (w *OTPWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *OTPWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("OTP sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep стирает коды, истекшие раньше чем sweepAfter назад
func (w *OTPWorker) Sweep() int64 {
	cutoff := w.now().Add(-w.sweepAfter).UnixMilli()

	cleared, err := w.userRepo.ClearExpiredOTPs(w.db, cutoff)
	logger.WorkerLog("otp_sweeper", "clear_expired_otps", err)
	if err != nil {
		return 0
	}
	if cleared > 0 {
		logger.Info("Expired OTPs cleared", "count", cleared)
	}
	return cleared
}
