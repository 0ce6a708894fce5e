package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/classify"
	"github.com/aivahq/dupwatch/internal/model"
	"github.com/aivahq/dupwatch/internal/store"
)

type DetectionStatus int

const (
	// Skipped means the candidate was empty after trimming; nothing was stored.
	Skipped DetectionStatus = iota
	// Accepted means the candidate was never seen before and is now the
	// canonical record for its value.
	Accepted
	// DuplicateDetected means an active record already holds this value and a
	// pending alert was written.
	DuplicateDetected
)

func (s DetectionStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case DuplicateDetected:
		return "duplicate_detected"
	default:
		return "skipped"
	}
}

func (s DetectionStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// Detection is the structured outcome of one detection attempt. Record is the
// newly accepted record on Accepted, or the matched original on
// DuplicateDetected. Alert is set only on DuplicateDetected.
type Detection struct {
	Status DetectionStatus         `json:"status"`
	Record *model.IdentifierRecord `json:"record,omitempty"`
	Alert  *model.DuplicateAlert   `json:"alert,omitempty"`
}

// NewDetector creates the duplicate detector. All synchronization is delegated
// to the store's uniqueness constraint; the detector holds no locks of its own
// so multiple process instances can share one backing store.
func NewDetector(store store.Store) *Detector {
	return &Detector{
		store: store,
	}
}

type Detector struct {
	store store.Store
}

// Detect decides NEW vs DUPLICATE for one candidate and performs the matching
// persistent effect exactly once. For a given value, across any number of
// concurrent calls, exactly one returns Accepted; every other call observes
// the active record (directly or through an insert conflict) and returns
// DuplicateDetected with a fresh pending alert.
func (d *Detector) Detect(ctx context.Context, candidate string, origin model.Origin) (*Detection, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return &Detection{Status: Skipped}, nil
	}

	existing, err := d.store.FindActive(ctx, candidate)
	switch {
	case err == nil:
		return d.recordDuplicate(ctx, candidate, origin, existing)
	case errors.Is(err, store.ErrNotFound):
		// fresh value, fall through to insert
	default:
		return nil, fmt.Errorf("%w: lookup %q: %v", ErrStoreUnavailable, candidate, err)
	}

	rec := &model.IdentifierRecord{
		Identifier:     candidate,
		IdentifierType: string(classify.Classify(candidate)),
		GroupID:        origin.GroupID,
		MessageID:      origin.MessageID,
		UserID:         origin.UserID,
	}

	err = d.store.CreateIdentifier(ctx, rec)
	if errors.Is(err, store.ErrConflict) {
		// Lost the insert race between lookup and insert. The winner's record
		// is active now, so this occurrence is a duplicate after all.
		existing, err := d.store.FindActive(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: re-read after conflict %q: %v", ErrStoreUnavailable, candidate, err)
		}
		return d.recordDuplicate(ctx, candidate, origin, existing)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: insert %q: %v", ErrStoreUnavailable, candidate, err)
	}

	logrus.Infof("identifier accepted: %s (%s)", rec.Identifier, rec.IdentifierType)

	return &Detection{Status: Accepted, Record: rec}, nil
}

// recordDuplicate persists one alert per detected occurrence. Alerts are not
// deduplicated against each other; every re-occurrence is reported.
func (d *Detector) recordDuplicate(ctx context.Context, candidate string, origin model.Origin, original *model.IdentifierRecord) (*Detection, error) {
	alert := &model.DuplicateAlert{
		Identifier: candidate,
		OriginalID: original.ID,
		GroupID:    origin.GroupID,
		MessageID:  origin.MessageID,
		UserID:     origin.UserID,
		Status:     model.AlertStatusPending,
	}

	if err := d.store.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlertWriteFailed, err)
	}

	logrus.Infof("duplicate detected: %s (original id %d, alert id %d)", candidate, original.ID, alert.ID)

	return &Detection{Status: DuplicateDetected, Record: original, Alert: alert}, nil
}
