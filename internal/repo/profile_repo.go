// Package repo – user profile lookups.
//
// Profiles mirror the external identity provider's display fields and exist
// only to make history readable. The batch shape here is an explicit
// performance contract: one fan-out query per history page, never one query
// per row.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/domain"
)

// ProfilesByIDs fetches every profile whose id appears in ids and returns
// them keyed by user id. Missing ids are simply absent from the map; the
// caller decides how to render unknown users.
func ProfilesByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.UserProfile, error) {
	out := make(map[string]domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.UserProfile
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// UpsertProfile creates or refreshes one mirrored profile. Request handlers
// never write profiles; seeding and tests do.
func UpsertProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) error {
	return db.WithContext(ctx).Save(p).Error
}
