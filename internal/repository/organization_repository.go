package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centro-ngo/centro-api/internal/models"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
)

// OrganizationRepository reads NGO profiles.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs the repository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetByID fetches the organization profile.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	const query = `SELECT id, name, email, logo_url, active, created_at, updated_at
FROM organizations WHERE id = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}
