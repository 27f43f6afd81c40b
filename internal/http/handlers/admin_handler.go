// Deletion HTTP handlers.
//
// This file exposes the destructive surface of the API:
//   - DELETE /conversions/{id}       (admin or record owner)
//   - POST   /conversions/bulk-delete (admin only)
//
// Both endpoints fail closed with 500 admin_unconfigured when no admin
// identity is configured for the deployment.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-fuel-backend/internal/services"
)

// BulkDeleteRequest is the JSON payload for deleting a batch of conversions.
type BulkDeleteRequest struct {
	// IDs is the list of conversion UUIDs to remove. One malformed id
	// rejects the whole batch.
	IDs []string `json:"ids" binding:"required"`
}

// DeleteResponse confirms a single-record deletion.
type DeleteResponse struct {
	Message string `json:"message" example:"Conversion deleted successfully."`
}

// BulkDeleteResponse confirms a bulk deletion and reports how many records
// it removed.
type BulkDeleteResponse struct {
	Message      string `json:"message" example:"Deleted 2 conversions."`
	DeletedCount int64  `json:"deleted_count"`
}

// DeleteConversion godoc
// @ID          deleteConversion
// @Summary     Delete a conversion record
// @Description Permanently removes one conversion. Allowed for the configured
// @Description admin or the record's owner.
// @Tags        Conversions
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Conversion ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.DeleteResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /conversions/{id} [delete]
func (h *Handlers) DeleteConversion(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := userID(c)
	if currentUser == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversion id must be a UUID")
		return
	}

	if err := h.delSvc.DeleteOne(ctx, currentUser, id); err != nil {
		switch {
		case errors.Is(err, services.ErrConversionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversion not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not allowed to delete this conversion")
		case errors.Is(err, services.ErrAdminUnconfigured):
			fail(c, http.StatusInternalServerError, ErrCodeAdminUnconfigured, "deletion is not configured for this deployment")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, "could not delete conversion")
		}
		return
	}

	ok(c, http.StatusOK, DeleteResponse{Message: "Conversion deleted successfully."})
}

// BulkDeleteConversions godoc
// @ID          bulkDeleteConversions
// @Summary     Delete a batch of conversion records
// @Description Permanently removes the listed conversions in one operation.
// @Description Admin only. A single malformed id rejects the whole batch and
// @Description nothing is deleted.
// @Tags        Conversions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.BulkDeleteRequest  true  "Conversion IDs"
//
// @Success     200  {object}  handlers.BulkDeleteResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /conversions/bulk-delete [post]
func (h *Handlers) BulkDeleteConversions(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := userID(c)
	if currentUser == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids required")
		return
	}

	n, err := h.delSvc.DeleteMany(ctx, currentUser, req.IDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidIDList):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids must be a non-empty list of UUIDs")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "bulk delete requires admin")
		case errors.Is(err, services.ErrAdminUnconfigured):
			fail(c, http.StatusInternalServerError, ErrCodeAdminUnconfigured, "deletion is not configured for this deployment")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, "could not delete conversions")
		}
		return
	}

	ok(c, http.StatusOK, BulkDeleteResponse{
		Message:      bulkDeleteMessage(n),
		DeletedCount: n,
	})
}

// bulkDeleteMessage builds the bulk-delete confirmation with correct plural.
func bulkDeleteMessage(n int64) string {
	if n == 1 {
		return "Deleted 1 conversion."
	}
	return fmt.Sprintf("Deleted %d conversions.", n)
}
