package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centro-ngo/centro-api/internal/models"
)

// ApplicationRepository reads volunteer membership applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListByOrg returns all applications submitted to the organization.
func (r *ApplicationRepository) ListByOrg(ctx context.Context, orgID string) ([]models.Application, error) {
	const query = `SELECT id, org_id, volunteer_id, status, applied_at
FROM applications WHERE org_id = $1 ORDER BY applied_at ASC, id ASC`
	apps := make([]models.Application, 0)
	if err := r.db.SelectContext(ctx, &apps, query, orgID); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
