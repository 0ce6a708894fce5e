package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aivahq/dupwatch/internal/model"
	"github.com/aivahq/dupwatch/internal/tester"
)

func TestGormStore_Identifiers(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	rec := &model.IdentifierRecord{
		Identifier:     "9841234567",
		IdentifierType: "phone",
		GroupID:        "group-1",
		MessageID:      10,
		UserID:         7,
	}
	err := st.CreateIdentifier(context.TODO(), rec)
	assert.NoError(t, err)
	assert.NotZero(t, rec.ID)

	got, err := st.FindActive(context.TODO(), "9841234567")
	assert.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "phone", got.IdentifierType)
	assert.Equal(t, "group-1", got.GroupID)

	_, err = st.FindActive(context.TODO(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	// second insert of the same value hits the unique index
	err = st.CreateIdentifier(context.TODO(), &model.IdentifierRecord{
		Identifier:     "9841234567",
		IdentifierType: "phone",
	})
	assert.ErrorIs(t, err, ErrConflict)

	count, err := st.CountIdentifiers(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_DeleteIdentifier(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	rec := &model.IdentifierRecord{Identifier: "user@example.com", IdentifierType: "email"}
	err := st.CreateIdentifier(context.TODO(), rec)
	assert.NoError(t, err)

	err = st.DeleteIdentifier(context.TODO(), rec.ID)
	assert.NoError(t, err)

	err = st.DeleteIdentifier(context.TODO(), rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.FindActive(context.TODO(), "user@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// value can be inserted again after removal
	err = st.CreateIdentifier(context.TODO(), &model.IdentifierRecord{
		Identifier:     "user@example.com",
		IdentifierType: "email",
	})
	assert.NoError(t, err)
}

func TestGormStore_ListIdentifiers(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	for _, v := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		err := st.CreateIdentifier(context.TODO(), &model.IdentifierRecord{
			Identifier:     v,
			IdentifierType: "email",
		})
		assert.NoError(t, err)
	}

	recs, err := st.ListIdentifiers(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestGormStore_Alerts(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	rec := &model.IdentifierRecord{Identifier: "REF123456", IdentifierType: "reference_code"}
	err := st.CreateIdentifier(context.TODO(), rec)
	assert.NoError(t, err)

	alert := &model.DuplicateAlert{
		Identifier: "REF123456",
		OriginalID: rec.ID,
		GroupID:    "group-1",
		MessageID:  20,
		Status:     model.AlertStatusPending,
	}
	err = st.CreateAlert(context.TODO(), alert)
	assert.NoError(t, err)
	assert.NotZero(t, alert.ID)

	got, err := st.GetAlert(context.TODO(), alert.ID)
	assert.NoError(t, err)
	assert.Equal(t, rec.ID, got.OriginalID)
	assert.Equal(t, model.AlertStatusPending, got.Status)

	pending, err := st.ListAlerts(context.TODO(), model.AlertStatusPending)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	err = st.ResolveAlert(context.TODO(), alert.ID)
	assert.NoError(t, err)

	err = st.ResolveAlert(context.TODO(), alert.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err = st.ListAlerts(context.TODO(), model.AlertStatusPending)
	assert.NoError(t, err)
	assert.Len(t, pending, 0)

	all, err := st.ListAlerts(context.TODO(), "")
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, model.AlertStatusResolved, all[0].Status)
}

func TestGormStore_DeleteResolvedAlertsBefore(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	rec := &model.IdentifierRecord{Identifier: "9841234567", IdentifierType: "phone"}
	err := st.CreateIdentifier(context.TODO(), rec)
	assert.NoError(t, err)

	resolved := &model.DuplicateAlert{Identifier: "9841234567", OriginalID: rec.ID, Status: model.AlertStatusResolved}
	pending := &model.DuplicateAlert{Identifier: "9841234567", OriginalID: rec.ID, Status: model.AlertStatusPending}
	assert.NoError(t, st.CreateAlert(context.TODO(), resolved))
	assert.NoError(t, st.CreateAlert(context.TODO(), pending))

	// cutoff in the future catches the resolved alert but never the pending one
	removed, err := st.DeleteResolvedAlertsBefore(context.TODO(), time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := st.CountAlerts(context.TODO(), "")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := st.GetAlert(context.TODO(), pending.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.AlertStatusPending, got.Status)
}

func TestGormStore_Transaction(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := NewGormStore(tester.TestDB())

	err := st.Transaction(context.TODO(), func(tx Store) error {
		return tx.CreateIdentifier(context.TODO(), &model.IdentifierRecord{
			Identifier:     "inside-tx",
			IdentifierType: "text",
		})
	})
	assert.NoError(t, err)

	_, err = st.FindActive(context.TODO(), "inside-tx")
	assert.NoError(t, err)

	// a returned error rolls the whole transaction back
	err = st.Transaction(context.TODO(), func(tx Store) error {
		if err := tx.CreateIdentifier(context.TODO(), &model.IdentifierRecord{
			Identifier:     "rolled-back",
			IdentifierType: "text",
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	_, err = st.FindActive(context.TODO(), "rolled-back")
	assert.ErrorIs(t, err, ErrNotFound)
}
