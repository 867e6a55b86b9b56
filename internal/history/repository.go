package history

import (
	"time"

	"github.com/pkg/errors"
)

// Repository reads and writes history events.
type Repository struct {
	db  *DB
	now func() time.Time
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Record inserts event, stamping it with the current time when unset.
func (r *Repository) Record(event *Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	if result := r.db.Create(event); result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert history event")
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit returns all events.
func (r *Repository) Recent(limit int) ([]Event, error) {
	var events []Event
	q := r.db.Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if result := q.Find(&events); result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query history events")
	}
	return events, nil
}

// ForProfile returns the events of one profile, newest first.
func (r *Repository) ForProfile(profile string, limit int) ([]Event, error) {
	var events []Event
	q := r.db.Where("profile = ?", profile).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if result := q.Find(&events); result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query history events")
	}
	return events, nil
}

// Clear deletes every event and returns how many were removed.
func (r *Repository) Clear() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&Event{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to clear history")
	}
	return result.RowsAffected, nil
}
