// Package repo – calibration table persistence.
//
// The in-memory calibration.Table is the lookup authority; these functions
// maintain its seeded copy in the calibration_table relation so the chart is
// inspectable with plain SQL and survives for audit.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/calibration"
	"github.com/tbourn/go-fuel-backend/internal/domain"
)

// SeedCalibration replaces the persisted calibration table with the decoded
// points, inside one transaction: either the new chart is fully in place or
// the old rows remain untouched. Re-seeding is the only sanctioned way to
// change calibration data.
func SeedCalibration(ctx context.Context, db *gorm.DB, points []calibration.Point) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.CalibrationPoint{}).Error; err != nil {
			return err
		}
		rows := make([]domain.CalibrationPoint, 0, len(points))
		for _, p := range points {
			rows = append(rows, domain.CalibrationPoint{Cm: p.Cm, Litres: p.Litres, CreatedAt: now})
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

// CountCalibrationPoints returns the number of persisted calibration rows.
func CountCalibrationPoints(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.CalibrationPoint{}).Count(&n).Error
	return n, err
}
