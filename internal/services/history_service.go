// Package services – HistoryService
//
// This file implements the read path over the conversions ledger: paginated,
// filterable retrieval plus user-profile enrichment. The visibility scope is
// a deployment choice (self vs global) injected at construction, not decided
// per request.
//
// Enrichment contract: a page is one ledger query plus at most one batch
// profile query for the distinct user ids on that page. A missing profile
// degrades the row to placeholder display fields; it never drops the row —
// history completeness outranks enrichment completeness.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/config"
	"github.com/tbourn/go-fuel-backend/internal/domain"
	"github.com/tbourn/go-fuel-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Placeholder display values for rows whose user id has no mirrored profile.
const (
	unknownUserName  = "Unknown user"
	unknownUserEmail = "N/A"
)

// HistoryEntry is one ledger row enriched with display fields for audit
// readability.
type HistoryEntry struct {
	domain.Conversion
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// HistoryPage is one page of enriched entries with pagination metadata.
type HistoryPage struct {
	Items      []HistoryEntry `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// HistoryService serves paginated, filtered reads over the ledger.
type HistoryService struct {
	DB *gorm.DB

	// Scope is config.ScopeSelf or config.ScopeGlobal.
	Scope string

	// DefaultPageSize and MaxPageSize bound caller-supplied page sizes.
	DefaultPageSize int
	MaxPageSize     int
}

// scoped applies the deployment scope to a caller-supplied filter: in self
// mode the requester only ever sees their own rows, whatever the filter says.
// In global mode a caller-supplied user filter narrows the view as given.
func (s *HistoryService) scoped(requesterID string, f repo.HistoryFilter) repo.HistoryFilter {
	if s.Scope == config.ScopeSelf {
		f.UserID = requesterID
	}
	return f
}

// ListPage returns one page of history for requesterID under the service
// scope, ordered most recent first.
func (s *HistoryService) ListPage(ctx context.Context, requesterID string, f repo.HistoryFilter, page, pageSize int) (*HistoryPage, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", requesterID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.DefaultPageSize
		if pageSize <= 0 {
			pageSize = config.DefaultPageSize
		}
	}
	if s.MaxPageSize > 0 && pageSize > s.MaxPageSize {
		pageSize = s.MaxPageSize
	}
	offset := (page - 1) * pageSize

	f = s.scoped(requesterID, f)

	total, err := repo.CountConversions(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	out := &HistoryPage{
		Items:      []HistoryEntry{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	if total == 0 {
		return out, nil
	}

	rows, err := repo.ListConversionsPage(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profilesFor(ctx, rows)
	if err != nil {
		return nil, err
	}

	out.Items = make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e := HistoryEntry{Conversion: r, UserName: unknownUserName, UserEmail: unknownUserEmail}
		if p, ok := profiles[r.UserID]; ok {
			if p.DisplayName != "" {
				e.UserName = p.DisplayName
			}
			if p.Email != "" {
				e.UserEmail = p.Email
			}
		}
		out.Items = append(out.Items, e)
	}
	return out, nil
}

// profilesFor batch-fetches the distinct profiles referenced by a page.
func (s *HistoryService) profilesFor(ctx context.Context, rows []domain.Conversion) (map[string]domain.UserProfile, error) {
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return repo.ProfilesByIDs(ctx, s.DB, ids)
}

// Stats returns the row count and newest timestamp for the requester's view
// of the ledger. The HTTP layer derives weak ETags from it.
func (s *HistoryService) Stats(ctx context.Context, requesterID string, f repo.HistoryFilter) (int64, *int64, error) {
	count, maxTS, err := repo.ConversionsStats(ctx, s.DB, s.scoped(requesterID, f))
	if err != nil {
		return 0, nil, err
	}
	if maxTS == nil {
		return count, nil, nil
	}
	unix := maxTS.Unix()
	return count, &unix, nil
}
