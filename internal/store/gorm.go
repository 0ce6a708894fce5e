package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aivahq/dupwatch/internal/model"
)

// NewGormStore wraps a gorm connection. The connection must be opened with
// TranslateError enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey on every supported driver.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) FindActive(ctx context.Context, identifier string) (*model.IdentifierRecord, error) {
	var rec model.IdentifierRecord
	err := g.db.WithContext(ctx).
		Where("identifier = ? AND is_duplicate = ?", identifier, false).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (g *GormStore) CreateIdentifier(ctx context.Context, rec *model.IdentifierRecord) error {
	err := g.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("identifier %q: %w", rec.Identifier, ErrConflict)
	}
	return err
}

func (g *GormStore) DeleteIdentifier(ctx context.Context, id uint) error {
	res := g.db.WithContext(ctx).
		Where("id = ? AND is_duplicate = ?", id, false).
		Delete(&model.IdentifierRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("identifier id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (g *GormStore) ListIdentifiers(ctx context.Context) ([]*model.IdentifierRecord, error) {
	var recs []*model.IdentifierRecord
	err := g.db.WithContext(ctx).
		Where("is_duplicate = ?", false).
		Order("created_at desc").
		Find(&recs).Error
	return recs, err
}

func (g *GormStore) CountIdentifiers(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.IdentifierRecord{}).
		Where("is_duplicate = ?", false).
		Count(&count).Error
	return count, err
}

func (g *GormStore) CreateAlert(ctx context.Context, alert *model.DuplicateAlert) error {
	return g.db.WithContext(ctx).Create(alert).Error
}

func (g *GormStore) GetAlert(ctx context.Context, id uint) (*model.DuplicateAlert, error) {
	var alert model.DuplicateAlert
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (g *GormStore) ListAlerts(ctx context.Context, status model.AlertStatus) ([]*model.DuplicateAlert, error) {
	q := g.db.WithContext(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var alerts []*model.DuplicateAlert
	err := q.Find(&alerts).Error
	return alerts, err
}

func (g *GormStore) ResolveAlert(ctx context.Context, id uint) error {
	res := g.db.WithContext(ctx).
		Model(&model.DuplicateAlert{}).
		Where("id = ? AND status = ?", id, model.AlertStatusPending).
		Update("status", model.AlertStatusResolved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending alert id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (g *GormStore) CountAlerts(ctx context.Context, status model.AlertStatus) (int64, error) {
	q := g.db.WithContext(ctx).Model(&model.DuplicateAlert{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteResolvedAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.AlertStatusResolved, cutoff).
		Delete(&model.DuplicateAlert{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
