// Package services – DeletionService
//
// This file implements the deletion authority over the conversions ledger.
// Authorization is carried by an AdminPolicy capability injected at startup
// rather than read from the environment inside handlers, so the fail-closed
// rule lives in exactly one place: with no configured admin identity, every
// delete fails with ErrAdminUnconfigured.
//
// Policy:
//   - single delete: allowed for the configured admin OR the record's owner;
//   - bulk delete: admin only, whole batch validated before any row is
//     touched, executed as one set-based statement.
//
// Deletion is a hard delete. A removed record is unrecoverable and excluded
// from every subsequent history query.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fuel-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AdminPolicy is the capability value describing the single externally
// configured admin identity. A zero AdminPolicy authorizes nothing.
type AdminPolicy struct {
	AdminUserID string
}

// Configured reports whether an admin identity is present at all.
func (p AdminPolicy) Configured() bool { return p.AdminUserID != "" }

// IsAdmin reports whether userID is the configured admin.
func (p AdminPolicy) IsAdmin(userID string) bool {
	return p.Configured() && userID == p.AdminUserID
}

// DeletionService removes ledger records under the admin policy.
type DeletionService struct {
	DB     *gorm.DB
	Policy AdminPolicy
}

// DeleteOne removes a single conversion on behalf of requesterID.
//
// Errors: ErrAdminUnconfigured (fail closed), ErrConversionNotFound,
// ErrForbidden, or the raw DB error. The ownership check and the delete run
// in one transaction so a concurrent delete cannot flip a Forbidden into a
// silent success.
func (s *DeletionService) DeleteOne(ctx context.Context, requesterID, id string) error {
	tr := otel.Tracer("services/DeletionService")
	ctx, span := tr.Start(ctx, "DeleteOne",
		trace.WithAttributes(
			attribute.String("user.id", requesterID),
			attribute.String("conversion.id", id),
		),
	)
	defer span.End()

	if !s.Policy.Configured() {
		log.Error().Str("user_id", requesterID).Msg("delete refused: ADMIN_USER_ID not configured")
		return ErrAdminUnconfigured
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := repo.GetConversion(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrConversionNotFound
			}
			return err
		}
		if !s.Policy.IsAdmin(requesterID) && rec.UserID != requesterID {
			return ErrForbidden
		}
		if err := repo.DeleteConversion(ctx, tx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrConversionNotFound
			}
			return err
		}
		return nil
	})
	if err == nil {
		recordDeletions(1)
	}
	return err
}

// DeleteMany removes every listed conversion in one set-based statement and
// returns the number of rows actually deleted. Ids that match nothing are
// reported through the count, not as an error.
//
// Errors: ErrAdminUnconfigured, ErrForbidden (non-admin requester),
// ErrInvalidIDList (empty list or any malformed id; nothing is deleted),
// or the raw DB error.
func (s *DeletionService) DeleteMany(ctx context.Context, requesterID string, ids []string) (int64, error) {
	tr := otel.Tracer("services/DeletionService")
	ctx, span := tr.Start(ctx, "DeleteMany",
		trace.WithAttributes(
			attribute.String("user.id", requesterID),
			attribute.Int("ids.count", len(ids)),
		),
	)
	defer span.End()

	if !s.Policy.Configured() {
		log.Error().Str("user_id", requesterID).Msg("bulk delete refused: ADMIN_USER_ID not configured")
		return 0, ErrAdminUnconfigured
	}
	if !s.Policy.IsAdmin(requesterID) {
		return 0, ErrForbidden
	}
	if len(ids) == 0 {
		return 0, ErrInvalidIDList
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, ErrInvalidIDList
		}
	}

	n, err := repo.DeleteConversions(ctx, s.DB, ids)
	if err != nil {
		return 0, err
	}
	recordDeletions(n)
	return n, nil
}
