package worker

import (
	"context"
	"time"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

// Reconciler sweeps reservations whose checkout never completed. A browser
// closed mid-payment leaves a pending_payment row holding the slot; after the
// TTL the row is removed and the slot opens again.
type Reconciler struct {
	repo    repository.AppointmentRepository
	cfg     config.ReconcilerConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewReconciler(repo repository.AppointmentRepository, cfg config.ReconcilerConfig, log *logger.Logger, m *metrics.Metrics) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 30 * time.Minute
	}
	return &Reconciler{repo: repo, cfg: cfg, logger: log, metrics: m}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("starting reservation reconciler",
		"interval", r.cfg.Interval.String(), "ttl", r.cfg.ReservationTTL.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down reservation reconciler")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.cfg.ReservationTTL)
	swept, err := r.repo.DeleteStaleReservations(ctx, cutoff)
	if err != nil {
		r.logger.Error(err, "failed to sweep stale reservations")
		return
	}
	if swept > 0 {
		r.metrics.OrphanedReservationsSwept.Add(float64(swept))
		r.logger.Info("swept stale reservations", "count", swept)
	}
}
