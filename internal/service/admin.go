package service

import (
	"context"
	"strings"

	"github.com/aivahq/dupwatch/internal/classify"
	"github.com/aivahq/dupwatch/internal/model"
	"github.com/aivahq/dupwatch/internal/store"
)

// NewAdminService creates the manual-curation surface. It operates directly
// against the store, bypassing the detector, but the store's uniqueness
// constraint still applies to everything it writes.
func NewAdminService(store store.Store) *AdminService {
	return &AdminService{
		store: store,
	}
}

type AdminService struct {
	store store.Store
}

// AddIdentifier puts an identifier on the watchlist without going through
// detection. Returns store.ErrConflict when the value is already watched.
func (a *AdminService) AddIdentifier(ctx context.Context, identifier, notes string, origin model.Origin) (*model.IdentifierRecord, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrEmptyIdentifier
	}

	rec := &model.IdentifierRecord{
		Identifier:     identifier,
		IdentifierType: string(classify.Classify(identifier)),
		Notes:          notes,
		GroupID:        origin.GroupID,
		MessageID:      origin.MessageID,
		UserID:         origin.UserID,
	}
	if err := a.store.CreateIdentifier(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *AdminService) ListIdentifiers(ctx context.Context) ([]*model.IdentifierRecord, error) {
	return a.store.ListIdentifiers(ctx)
}

func (a *AdminService) RemoveIdentifier(ctx context.Context, id uint) error {
	return a.store.DeleteIdentifier(ctx, id)
}

func (a *AdminService) ListAlerts(ctx context.Context, status model.AlertStatus) ([]*model.DuplicateAlert, error) {
	return a.store.ListAlerts(ctx, status)
}

// ResolveAlert transitions a pending alert to resolved. This is the only way
// an alert changes state; the detection path never mutates alerts.
func (a *AdminService) ResolveAlert(ctx context.Context, id uint) error {
	return a.store.ResolveAlert(ctx, id)
}

// Status is a point-in-time snapshot of the watchlist.
type Status struct {
	Tracked       int64 `json:"tracked"`
	Duplicates    int64 `json:"duplicates"`
	PendingAlerts int64 `json:"pending_alerts"`
}

// Status reads all counters in one transaction so they describe a single
// consistent snapshot.
func (a *AdminService) Status(ctx context.Context) (*Status, error) {
	var st Status
	err := a.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if st.Tracked, err = tx.CountIdentifiers(ctx); err != nil {
			return err
		}
		if st.Duplicates, err = tx.CountAlerts(ctx, ""); err != nil {
			return err
		}
		st.PendingAlerts, err = tx.CountAlerts(ctx, model.AlertStatusPending)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
