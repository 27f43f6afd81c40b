// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// and give clients a stable, machine-readable taxonomy that supplements
// human-readable messages. Codes are lowercase snake_case; generic codes
// mirror common HTTP status semantics, domain-specific codes convey business
// failures the status alone cannot.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "calibration_gap",
//	  "message": "no calibration value for this reading"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidReading    = "invalid_reading"
	ErrCodeCalibrationGap    = "calibration_gap"
	ErrCodeAdminUnconfigured = "admin_unconfigured"
	ErrCodeConvertFailed     = "convert_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeDeleteFailed      = "delete_failed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)
