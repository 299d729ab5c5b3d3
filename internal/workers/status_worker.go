package workers

import (
	"context"
	"time"

	"ejaraat_backend/internal/logger"

	"gorm.io/gorm"
)

const statusWorkerName = "rental_status"

// Reclassifier: один проход классификатора по всем арендам
type Reclassifier interface {
	ReclassifyAll(ctx context.Context, db *gorm.DB) (int, error)
}

// StatusWorker периодически пересчитывает статусы аренд (pending/overdue),
// чтобы просрочка появлялась без захода арендодателя на дашборд.
type StatusWorker struct {
	db       *gorm.DB
	rentals  Reclassifier
	interval time.Duration
}

func NewStatusWorker(db *gorm.DB, rentals Reclassifier, interval time.Duration) *StatusWorker {
	return &StatusWorker{db: db, rentals: rentals, interval: interval}
}

// Start запускает воркер в отдельной горутине
func (w *StatusWorker) Start(ctx context.Context) {
	go func() {
		_ = w.Run(ctx)
	}()
}

// Run блокируется до отмены ctx. Первый проход сразу при старте.
// Ошибки прохода логируются, воркер продолжает работу.
func (w *StatusWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		logger.WorkerLog(statusWorkerName, "disabled", nil)
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog(statusWorkerName, "stop", nil)
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce: один проход; возвращает число изменённых аренд
func (w *StatusWorker) RunOnce(ctx context.Context) int {
	changed, err := w.rentals.ReclassifyAll(ctx, w.db.WithContext(ctx))
	logger.WorkerLog(statusWorkerName, "reclassify", err, "changed", changed)
	return changed
}
