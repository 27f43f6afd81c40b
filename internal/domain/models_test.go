package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (Conversion{}).TableName() != "conversions" {
		t.Fatalf("Conversion.TableName() = %q; want %q", (Conversion{}).TableName(), "conversions")
	}
	if (CalibrationPoint{}).TableName() != "calibration_table" {
		t.Fatalf("CalibrationPoint.TableName() = %q; want %q", (CalibrationPoint{}).TableName(), "calibration_table")
	}
	if (UserProfile{}).TableName() != "user_profiles" {
		t.Fatalf("UserProfile.TableName() = %q; want %q", (UserProfile{}).TableName(), "user_profiles")
	}
}

func TestMigrations_Tables_AndIndexes(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Conversion{}, &CalibrationPoint{}, &UserProfile{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&Conversion{}, &CalibrationPoint{}, &UserProfile{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	if !m.HasIndex(&Conversion{}, "idx_user_conversions") {
		t.Fatalf("expected index idx_user_conversions on conversions")
	}
	if !m.HasIndex(&Conversion{}, "idx_conversions_created_at") {
		t.Fatalf("expected index idx_conversions_created_at on conversions")
	}
}

func TestCalibrationPoint_UniqueCm(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&CalibrationPoint{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	if err := db.Create(&CalibrationPoint{Cm: 42, Litres: 2465}).Error; err != nil {
		t.Fatalf("insert point: %v", err)
	}
	// Same cm again must trip the primary key.
	if err := db.Create(&CalibrationPoint{Cm: 42, Litres: 9999}).Error; err == nil {
		t.Fatal("duplicate cm should violate the primary key")
	}
}

func TestConversion_HardRow(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Conversion{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	c := &Conversion{ID: "11111111-1111-1111-1111-111111111111", UserID: "u1", ValueCm: 150, VolumeL: 15000, CreatedAt: time.Now().UTC()}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("insert conversion: %v", err)
	}

	// Hard delete: no deleted_at column, the row is really gone.
	if err := db.Delete(&Conversion{}, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int64
	if err := db.Model(&Conversion{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected row to be gone, count = %d", n)
	}
}
