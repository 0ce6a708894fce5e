package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aivahq/dupwatch/internal/model"
)

// NewMemoryStore returns an in-process Store. Each operation is atomic under
// one mutex, so the check-and-insert in CreateIdentifier carries the same
// exactly-one-winner guarantee as the database unique index. Transactions are
// best effort: operations apply immediately and are not rolled back.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identifiers: make(map[string]*model.IdentifierRecord),
		byID:        make(map[uint]*model.IdentifierRecord),
		alerts:      make(map[uint]*model.DuplicateAlert),
	}
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu          sync.Mutex
	identifiers map[string]*model.IdentifierRecord
	byID        map[uint]*model.IdentifierRecord
	alerts      map[uint]*model.DuplicateAlert
	nextRecID   uint
	nextAlertID uint
}

func (m *MemoryStore) FindActive(ctx context.Context, identifier string) (*model.IdentifierRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.identifiers[identifier]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) CreateIdentifier(ctx context.Context, rec *model.IdentifierRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.identifiers[rec.Identifier]; ok {
		return fmt.Errorf("identifier %q: %w", rec.Identifier, ErrConflict)
	}

	m.nextRecID++
	rec.ID = m.nextRecID
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	cp := *rec
	m.identifiers[rec.Identifier] = &cp
	m.byID[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteIdentifier(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("identifier id %d: %w", id, ErrNotFound)
	}
	delete(m.identifiers, rec.Identifier)
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) ListIdentifiers(ctx context.Context) ([]*model.IdentifierRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := make([]*model.IdentifierRecord, 0, len(m.identifiers))
	for _, rec := range m.identifiers {
		cp := *rec
		recs = append(recs, &cp)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

func (m *MemoryStore) CountIdentifiers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.identifiers)), nil
}

func (m *MemoryStore) CreateAlert(ctx context.Context, alert *model.DuplicateAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAlertID++
	alert.ID = m.nextAlertID
	alert.CreatedAt = time.Now()
	if alert.Status == "" {
		alert.Status = model.AlertStatusPending
	}

	cp := *alert
	m.alerts[alert.ID] = &cp
	return nil
}

func (m *MemoryStore) GetAlert(ctx context.Context, id uint) (*model.DuplicateAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *alert
	return &cp, nil
}

func (m *MemoryStore) ListAlerts(ctx context.Context, status model.AlertStatus) ([]*model.DuplicateAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alerts := make([]*model.DuplicateAlert, 0, len(m.alerts))
	for _, alert := range m.alerts {
		if status != "" && alert.Status != status {
			continue
		}
		cp := *alert
		alerts = append(alerts, &cp)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID > alerts[j].ID })
	return alerts, nil
}

func (m *MemoryStore) ResolveAlert(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok || alert.Status != model.AlertStatusPending {
		return fmt.Errorf("pending alert id %d: %w", id, ErrNotFound)
	}
	alert.Status = model.AlertStatusResolved
	return nil
}

func (m *MemoryStore) CountAlerts(ctx context.Context, status model.AlertStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, alert := range m.alerts {
		if status == "" || alert.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteResolvedAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, alert := range m.alerts {
		if alert.Status == model.AlertStatusResolved && alert.CreatedAt.Before(cutoff) {
			delete(m.alerts, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Migrate() error {
	return nil
}

func (m *MemoryStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return f(m)
}
