// Package domain defines the persistence models for conversions, calibration
// points, and user profiles. These types are mapped with GORM and form the
// core data layer of the fuel gauge application.
package domain

import "time"

// Conversion is one audit record of the gauge-to-volume ledger: a submitted
// dipstick reading together with the volume resolved against the calibration
// table at the moment of submission.
//
// The ledger is append-only. Rows are never updated; VolumeL is denormalized
// on purpose so history stays accurate even if the table is re-seeded later.
// Removal is a hard delete performed only by the deletion authority, which is
// why there is no soft-delete marker on this model.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the principal who submitted the reading; a
//     back-reference into the external identity store, indexed for scoped
//     history queries.
//   - ValueCm: the submitted reading in centimetres.
//   - VolumeL: litres resolved at creation time.
//   - CreatedAt: insertion timestamp (UTC), immutable, indexed for the
//     fixed created_at DESC history ordering.
type Conversion struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_conversions"`
	ValueCm   int       `json:"value_cm"   gorm:"not null;check:value_cm >= 0"`
	VolumeL   float64   `json:"volume_l"   gorm:"not null;check:volume_l >= 0"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_conversions_created_at"`
}

// TableName returns the database table name for Conversion.
func (Conversion) TableName() string { return "conversions" }

// CalibrationPoint is one row of the persisted calibration table: the litres
// held by the tank at an integer dipstick height. The authoritative lookup
// structure lives in memory (see internal/calibration); these rows are its
// seeded copy, replaced wholesale on re-seed.
type CalibrationPoint struct {
	Cm        int       `json:"cm"     gorm:"primaryKey;autoIncrement:false"`
	Litres    float64   `json:"litres" gorm:"not null;check:litres >= 0"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for CalibrationPoint.
func (CalibrationPoint) TableName() string { return "calibration_table" }

// UserProfile mirrors the display fields of the external identity provider,
// keyed by the same user id referenced from conversions. It exists purely to
// enrich history rows with a readable name/email; it is not an account and
// this service never authenticates against it.
type UserProfile struct {
	ID          string    `json:"id"           gorm:"type:varchar(64);primaryKey"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255)"`
	Email       string    `json:"email"        gorm:"type:varchar(255);index"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_profiles" }
