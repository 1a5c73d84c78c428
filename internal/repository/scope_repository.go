package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/fleet-reports/internal/model"
)

type ScopeRepository struct {
	db *gorm.DB
}

func NewScopeRepository(db *gorm.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

// ResolveOrganization finds the organization the caller acts for: the token's
// org claim when present, otherwise the organization of the user record.
func (r *ScopeRepository) ResolveOrganization(ctx context.Context, principal model.Principal) (*model.Organization, error) {
	if principal.OrgID != nil {
		return r.GetOrganization(ctx, *principal.OrgID)
	}

	var org model.Organization
	if err := r.db.WithContext(ctx).Raw(`
		SELECT o.id, o.name
		FROM users u
		JOIN organizations o ON o.id = u.organization_id
		WHERE u.id = ?
		LIMIT 1
	`, principal.UserID).Scan(&org).Error; err != nil {
		return nil, err
	}
	if org.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &org, nil
}

func (r *ScopeRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name
		FROM organizations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&org).Error; err != nil {
		return nil, err
	}
	if org.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &org, nil
}
