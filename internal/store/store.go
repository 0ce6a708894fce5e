package store

import (
	"context"
	"time"

	"github.com/aivahq/dupwatch/internal/model"
)

type Store interface {
	IdentifierStore
	AlertStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type IdentifierStore interface {
	// FindActive retrieves the non-duplicate record holding this exact value,
	// or ErrNotFound.
	FindActive(ctx context.Context, identifier string) (*model.IdentifierRecord, error)
	// CreateIdentifier inserts a new identifier record. Returns ErrConflict if
	// an active record with the same value already exists; the uniqueness check
	// is enforced by the storage constraint, not by the caller.
	CreateIdentifier(ctx context.Context, rec *model.IdentifierRecord) error
	// DeleteIdentifier removes an active record by id. Returns ErrNotFound if absent.
	DeleteIdentifier(ctx context.Context, id uint) error
	// ListIdentifiers retrieves all active records, newest first.
	ListIdentifiers(ctx context.Context) ([]*model.IdentifierRecord, error)
	// CountIdentifiers counts active records.
	CountIdentifiers(ctx context.Context) (int64, error)
}

type AlertStore interface {
	// CreateAlert inserts a new duplicate alert.
	CreateAlert(ctx context.Context, alert *model.DuplicateAlert) error
	// GetAlert retrieves an alert by id.
	GetAlert(ctx context.Context, id uint) (*model.DuplicateAlert, error)
	// ListAlerts retrieves alerts, newest first, optionally filtered by status.
	ListAlerts(ctx context.Context, status model.AlertStatus) ([]*model.DuplicateAlert, error)
	// ResolveAlert transitions a pending alert to resolved. Returns ErrNotFound
	// if there is no pending alert with this id.
	ResolveAlert(ctx context.Context, id uint) error
	// CountAlerts counts alerts, optionally filtered by status.
	CountAlerts(ctx context.Context, status model.AlertStatus) (int64, error)
	// DeleteResolvedAlertsBefore removes resolved alerts created before the
	// cutoff and reports how many were removed.
	DeleteResolvedAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
