package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aivahq/dupwatch/internal/model"
	"github.com/aivahq/dupwatch/internal/store"
)

func TestAlertSweeper_Run(t *testing.T) {
	st := store.NewMemoryStore()

	resolved := &model.DuplicateAlert{Identifier: "9841234567", OriginalID: 1, Status: model.AlertStatusResolved}
	pending := &model.DuplicateAlert{Identifier: "9841234567", OriginalID: 1, Status: model.AlertStatusPending}
	assert.NoError(t, st.CreateAlert(context.TODO(), resolved))
	assert.NoError(t, st.CreateAlert(context.TODO(), pending))

	// zero retention sweeps anything resolved before this instant
	sweeper := NewAlertSweeper("@daily", 0, st)
	assert.Equal(t, "@daily", sweeper.Schedule())

	time.Sleep(10 * time.Millisecond)
	sweeper.Run()

	_, err := st.GetAlert(context.TODO(), resolved.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.GetAlert(context.TODO(), pending.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.AlertStatusPending, got.Status)
}
