// Package services – ConversionService
//
// This file implements ConversionService, the application-level component
// that turns a raw gauge submission into a ledger record. It coerces and
// validates the reading, resolves litres against the in-memory calibration
// table, and appends exactly one row to the conversions ledger. The resolved
// volume is denormalized into the row on purpose: history must keep showing
// what the table said at submission time, even across re-seeds.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the user id and the submitted reading.
package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/calibration"
	"github.com/tbourn/go-fuel-backend/internal/domain"
	"github.com/tbourn/go-fuel-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ConversionService validates readings, resolves volumes, and appends to the
// ledger. It is pure relative to the table snapshot: two Convert calls with
// the same reading and an unchanged table yield the same volume.
type ConversionService struct {
	DB    *gorm.DB
	Table *calibration.Table

	// MaxGaugeCm is the canonical inclusive upper bound for readings. It is
	// checked before the table is consulted so out-of-range input never
	// masquerades as a calibration gap.
	MaxGaugeCm int
}

// Convert coerces raw into an integer centimetre reading, resolves the
// volume, and persists the conversion for userID.
//
// Validation failures return ErrInvalidReading; an in-range reading with no
// seeded value returns ErrCalibrationGap. Persistence failures propagate the
// raw DB error for the handler to map to a generic server error.
func (s *ConversionService) Convert(ctx context.Context, userID, raw string) (*domain.Conversion, error) {
	tr := otel.Tracer("services/ConversionService")
	ctx, span := tr.Start(ctx, "Convert",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("gauge.raw", raw),
		),
	)
	defer span.End()

	cm, err := s.coerce(raw)
	if err != nil {
		recordFailure("invalid_reading")
		return nil, err
	}

	volume, err := s.Table.Lookup(cm)
	if err != nil {
		if errors.Is(err, calibration.ErrGap) {
			recordFailure("calibration_gap")
			return nil, ErrCalibrationGap
		}
		// Range is validated above, so anything else from the table is a
		// programming error surfaced as invalid input.
		recordFailure("invalid_reading")
		return nil, ErrInvalidReading
	}

	conv, err := repo.CreateConversion(ctx, s.DB, userID, cm, volume)
	if err != nil {
		recordFailure("storage")
		return nil, err
	}
	recordConversion()
	return conv, nil
}

// coerce parses raw into an integer reading inside [0, MaxGaugeCm].
func (s *ConversionService) coerce(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidReading
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidReading
	}
	if f != math.Trunc(f) {
		return 0, ErrInvalidReading
	}
	cm := int(f)
	if cm < 0 || cm > s.MaxGaugeCm {
		return 0, ErrInvalidReading
	}
	return cm, nil
}

// litrePrinter renders litres with locale-aware grouping ("15,000 litres").
var litrePrinter = message.NewPrinter(language.English)

// FormatMessage builds the human-readable confirmation attached to a
// successful conversion response.
func FormatMessage(c *domain.Conversion) string {
	return litrePrinter.Sprintf("A reading of %d cm corresponds to %.0f litres.", c.ValueCm, c.VolumeL)
}
