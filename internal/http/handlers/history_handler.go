// History HTTP handlers.
//
// This file exposes the read path of the API:
//   - GET /conversions  (paginated, filtered conversion history with user
//     enrichment and weak ETag support)
//
// Query parameters:
//   - page, page_size: pagination (clamped by the service)
//   - search:          numeric needle matched against reading OR volume
//   - date_from/date_to: inclusive YYYY-MM-DD day bounds in UTC
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fuel-backend/internal/repo"
	"github.com/tbourn/go-fuel-backend/internal/services"
	"github.com/tbourn/go-fuel-backend/internal/utils"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// HistoryResponse wraps a page of enriched conversions and pagination info.
type HistoryResponse struct {
	Conversions []services.HistoryEntry `json:"conversions"`
	Pagination  Pagination              `json:"pagination"`
}

// parseHistoryFilter builds a repo.HistoryFilter from query parameters.
// It reports a client error message when a parameter is malformed.
func parseHistoryFilter(c *gin.Context) (repo.HistoryFilter, string) {
	var f repo.HistoryFilter

	if s := strings.TrimSpace(c.Query("search")); s != "" {
		needle, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return f, "search must be numeric"
		}
		f.Search = &needle
	}

	from, err := utils.ParseDayStart(c.Query("date_from"))
	if err != nil {
		return f, "date_from must be YYYY-MM-DD"
	}
	f.From = from

	to, err := utils.ParseDayEnd(c.Query("date_to"))
	if err != nil {
		return f, "date_to must be YYYY-MM-DD"
	}
	f.To = to

	// Honored only in global scope; self scope pins it to the requester.
	f.UserID = strings.TrimSpace(c.Query("user_id"))

	return f, ""
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List conversion history
// @Description Returns a paginated, filterable page of recorded conversions,
// @Description newest first, enriched with user display fields. Supports
// @Description conditional requests via weak ETags.
// @Tags        Conversions
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int     false "Page number"       minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"    minimum(1) maximum(100) default(20)
// @Param       search     query  number  false "Match reading or volume exactly"
// @Param       date_from  query  string  false "Inclusive start day (YYYY-MM-DD, UTC)"
// @Param       date_to    query  string  false "Inclusive end day (YYYY-MM-DD, UTC)"
// @Param       user_id    query  string  false "Filter by user (global scope only)"
//
// @Success     200  {object}  handlers.HistoryResponse
// @Success     304  "Not modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /conversions [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := userID(c)
	if currentUser == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	f, badParam := parseHistoryFilter(c)
	if badParam != "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, badParam)
		return
	}

	// ETag pre-check (best effort). The tag covers the requester's view and
	// the exact filter, so a changed filter never serves a stale 304.
	if count, maxTS, err := h.histSvc.Stats(ctx, currentUser, f); err == nil {
		var ts int64
		if maxTS != nil {
			ts = *maxTS
		}
		etag := historyETag(currentUser, c.Request.URL.RawQuery, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 0)

	result, err := h.histSvc.ListPage(ctx, currentUser, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list conversions")
		return
	}

	ok(c, http.StatusOK, HistoryResponse{
		Conversions: result.Items,
		Pagination: Pagination{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
			HasNext:    result.Page < result.TotalPages,
		},
	})
}

// historyETag derives a weak validator from the view identity and the ledger
// stats. The query string is hashed to keep the tag short.
func historyETag(requesterID, rawQuery string, count, ts int64) string {
	qh := fnv.New32a()
	_, _ = qh.Write([]byte(rawQuery))
	return fmt.Sprintf(`W/"history:%s:%x:%d:%d"`, requesterID, qh.Sum32(), count, ts)
}
