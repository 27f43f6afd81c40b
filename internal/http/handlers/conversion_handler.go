// Conversion HTTP handlers.
//
// This file exposes the write path of the API:
//   - POST /conversions  (submit a gauge reading, get litres back)
//
// Handlers are transport-thin: they validate and normalize input, call the
// application services, and translate results into HTTP responses. The
// reading may arrive as a JSON number or a numeric string; both forms are
// accepted and coerced by the service layer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fuel-backend/internal/domain"
	"github.com/tbourn/go-fuel-backend/internal/http/middleware"
	"github.com/tbourn/go-fuel-backend/internal/repo"
	"github.com/tbourn/go-fuel-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// Converter turns raw gauge submissions into ledger records.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation and timeouts.
type Converter interface {
	// Convert validates raw, resolves the volume, and appends a ledger row.
	Convert(ctx context.Context, userID, raw string) (*domain.Conversion, error)
}

// HistoryReader serves paginated, filtered reads over the ledger.
type HistoryReader interface {
	// ListPage returns one page of enriched history for the requester.
	ListPage(ctx context.Context, requesterID string, f repo.HistoryFilter, page, pageSize int) (*services.HistoryPage, error)
	// Stats returns the row count and newest unix timestamp for the
	// requester's view, used for conditional responses.
	Stats(ctx context.Context, requesterID string, f repo.HistoryFilter) (int64, *int64, error)
}

// Deleter removes ledger records under the deletion policy.
type Deleter interface {
	// DeleteOne removes a single conversion on behalf of the requester.
	DeleteOne(ctx context.Context, requesterID, id string) error
	// DeleteMany removes a batch of conversions, admin only.
	DeleteMany(ctx context.Context, requesterID string, ids []string) (int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for conversions, history, and deletion.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	convSvc Converter
	histSvc HistoryReader
	delSvc  Deleter
}

// New constructs a Handlers instance bound to the given services.
func New(convSvc Converter, histSvc HistoryReader, delSvc Deleter) *Handlers {
	return &Handlers{convSvc: convSvc, histSvc: histSvc, delSvc: delSvc}
}

// userID extracts the authenticated user id from the Gin context (set by the
// auth middleware). An empty result means auth did not run; handlers treat
// that as unauthorized.
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

//
// DTOs
//

// ConvertRequest is the JSON payload for submitting a gauge reading.
//
// ValueCm is kept raw so both `{"value_cm": 150}` and `{"value_cm": "150"}`
// are accepted; coercion and range validation happen in the service.
type ConvertRequest struct {
	ValueCm json.RawMessage `json:"value_cm" binding:"required"`
}

// ConvertResponse is the envelope for a successful conversion.
type ConvertResponse struct {
	Conversion *domain.Conversion `json:"conversion"`
	// Message is a human-readable confirmation, e.g.
	// "A reading of 150 cm corresponds to 15,000 litres."
	Message string `json:"message"`
}

// rawReading renders the raw JSON value as the string handed to the service.
// A quoted JSON string is unquoted; anything else is passed through verbatim.
func rawReading(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}

//
// Handlers
//

// Convert godoc
// @ID          convertReading
// @Summary     Convert a gauge reading to litres
// @Description Validates a dipstick reading in centimetres, resolves the fuel
// @Description volume from the calibration table, and records the conversion.
// @Tags        Conversions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.ConvertRequest  true  "Gauge reading payload"
//
// @Success     201  {object}  handlers.ConvertResponse  "Recorded conversion"
// @Failure     400  {object}  handlers.ErrorResponse    "Invalid reading"
// @Failure     401  {object}  handlers.ErrorResponse    "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse    "Calibration gap"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /conversions [post]
func (h *Handlers) Convert(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := userID(c)
	if currentUser == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value_cm required")
		return
	}

	conv, err := h.convSvc.Convert(ctx, currentUser, rawReading(req.ValueCm))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReading):
			fail(c, http.StatusBadRequest, ErrCodeInvalidReading, "value_cm must be a whole number of centimetres within the gauge range")
		case errors.Is(err, services.ErrCalibrationGap):
			fail(c, http.StatusNotFound, ErrCodeCalibrationGap, "no calibration value for this reading")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeConvertFailed, "could not record conversion")
		}
		return
	}

	ok(c, http.StatusCreated, ConvertResponse{
		Conversion: conv,
		Message:    services.FormatMessage(conv),
	})
}
