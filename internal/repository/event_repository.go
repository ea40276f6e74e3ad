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

const eventColumns = `id, org_id, title, event_date, start_time, end_time, call_time, location, status,
objectives, description, expectations, guidelines, opportunities, image_url, created_at, updated_at`

// EventRepository reads organization events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListByOrg returns all events owned by the organization, oldest first.
// Identifier is the tie-break so repeated reads produce a stable order.
func (r *EventRepository) ListByOrg(ctx context.Context, orgID string) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE org_id = $1 ORDER BY event_date ASC, id ASC`, eventColumns)
	events := make([]models.Event, 0)
	if err := r.db.SelectContext(ctx, &events, query, orgID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetByID fetches a single event scoped to the organization.
func (r *EventRepository) GetByID(ctx context.Context, orgID, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE org_id = $1 AND id = $2`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, orgID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}
