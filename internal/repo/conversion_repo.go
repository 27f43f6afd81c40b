// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Conversion
// ledger.
//
// All functions accept a *gorm.DB handle and a context, making them safe for
// use within transactions or connection-scoped operations. They follow the
// "thin repository" approach: no business logic, only CRUD persistence and
// query composition.
//
// Error semantics:
//   - When a conversion is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// HistoryFilter is the typed query shape for ledger reads. It is compiled
// once into GORM conditions by scope(); optional fields are pointers so the
// absence of a filter never leaks into SQL.
//
//   - UserID: restrict to one owner; empty means all users (global history).
//   - Search: exact numeric match against value_cm OR volume_l.
//   - From/To: inclusive created_at bounds. Callers are expected to pass
//     day-floored/ceiled UTC instants (see utils.DayStart/DayEnd).
type HistoryFilter struct {
	UserID string
	Search *float64
	From   *time.Time
	To     *time.Time
}

// scope compiles the filter into a query over the conversions table.
func (f HistoryFilter) scope(db *gorm.DB) *gorm.DB {
	q := db.Model(&domain.Conversion{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Search != nil {
		q = q.Where("value_cm = ? OR volume_l = ?", *f.Search, *f.Search)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

// CreateConversion appends a new ledger row for userID. The id is a randomly
// generated UUID and CreatedAt is set to UTC. The ledger is append-only;
// there is no corresponding update function.
func CreateConversion(ctx context.Context, db *gorm.DB, userID string, valueCm int, volumeL float64) (*domain.Conversion, error) {
	c := &domain.Conversion{
		ID:        uuid.NewString(),
		UserID:    userID,
		ValueCm:   valueCm,
		VolumeL:   volumeL,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountConversions returns the number of ledger rows matching the filter.
func CountConversions(ctx context.Context, db *gorm.DB, f HistoryFilter) (int64, error) {
	var total int64
	err := f.scope(db.WithContext(ctx)).Count(&total).Error
	return total, err
}

// ListConversionsPage returns one page of matching ledger rows ordered by
// creation time descending (most recent first), with a deterministic id
// tie-break. The caller computes offset/limit from (page-1)*pageSize.
func ListConversionsPage(ctx context.Context, db *gorm.DB, f HistoryFilter, offset, limit int) ([]domain.Conversion, error) {
	var out []domain.Conversion
	err := f.scope(db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetConversion fetches a single ledger row by id, or ErrNotFound.
func GetConversion(ctx context.Context, db *gorm.DB, id string) (*domain.Conversion, error) {
	var c domain.Conversion
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteConversion hard-deletes a single ledger row. If no row was removed
// it returns ErrNotFound so a second delete of the same id is reported as
// absence, not success.
func DeleteConversion(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Conversion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteConversions hard-deletes every listed id in one set-based statement
// and returns the number of rows actually removed. Ids that match nothing
// simply do not count; partial success is expressed through the count.
func DeleteConversions(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Conversion{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ConversionsStats returns aggregate metadata for the filtered ledger: row
// count and the most recent CreatedAt. Used for weak ETags on the history
// listing. When nothing matches, count is 0 and maxCreatedAt is nil.
func ConversionsStats(ctx context.Context, db *gorm.DB, f HistoryFilter) (count int64, maxCreatedAt *time.Time, err error) {
	q := f.scope(db.WithContext(ctx))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest created_at without MAX() (avoids MAX() -> TEXT in SQLite).
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
