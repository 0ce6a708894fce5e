package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/store"
)

// AlertSweeper removes resolved alerts older than the retention window.
// Pending alerts are never touched.
type AlertSweeper struct {
	store     store.Store
	retention time.Duration
	cron      string
}

func NewAlertSweeper(schedule string, retention time.Duration, store store.Store) *AlertSweeper {
	return &AlertSweeper{
		store:     store,
		retention: retention,
		cron:      schedule,
	}
}

func (s *AlertSweeper) Schedule() string {
	return s.cron
}

func (s *AlertSweeper) Run() {
	cutoff := time.Now().Add(-s.retention)

	removed, err := s.store.DeleteResolvedAlertsBefore(context.Background(), cutoff)
	if err != nil {
		logrus.Errorf("alert sweep failed: %v", err)
		return
	}

	if removed > 0 {
		logrus.Infof("swept %d resolved alerts older than %s", removed, s.retention)
	}
}
