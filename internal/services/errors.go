// Package services defines the business logic for conversions, history, and
// deletion. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrInvalidReading is returned when a submitted gauge value is not a
	// number, not an integer, negative, or above the calibrated maximum.
	// Always a client error; it never reaches the calibration table.
	ErrInvalidReading = errors.New("invalid gauge reading")

	// ErrCalibrationGap is returned when an in-range reading has no entry in
	// the calibration table. This is a seed-data defect, distinct from
	// ErrInvalidReading so it maps to 404 rather than 400.
	ErrCalibrationGap = errors.New("no calibration entry for reading")

	// ErrConversionNotFound indicates that the requested ledger record does
	// not exist (or was already deleted).
	ErrConversionNotFound = errors.New("conversion not found")

	// ErrForbidden is returned when an authenticated principal lacks the
	// required ownership or admin privilege for a delete.
	ErrForbidden = errors.New("not allowed to delete this conversion")

	// ErrAdminUnconfigured is returned when a delete is attempted while no
	// admin identity is configured. Deletes fail closed in that state; this
	// is an operational defect, not a user error, and is logged loudly.
	ErrAdminUnconfigured = errors.New("admin identity not configured")

	// ErrInvalidIDList is returned when a bulk delete request carries an
	// empty list or any malformed id. The whole batch is rejected before a
	// single row is touched.
	ErrInvalidIDList = errors.New("id list is empty or contains malformed ids")
)
