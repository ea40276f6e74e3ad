package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/centro-ngo/centro-api/internal/models"
)

// ParticipationRepository reads volunteer sign-ups.
type ParticipationRepository struct {
	db *sqlx.DB
}

// NewParticipationRepository constructs the repository.
func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// ListByEventIDs returns every participation record for the given events.
func (r *ParticipationRepository) ListByEventIDs(ctx context.Context, eventIDs []string) ([]models.Participation, error) {
	records := make([]models.Participation, 0)
	if len(eventIDs) == 0 {
		return records, nil
	}
	const query = `SELECT id, event_id, volunteer_id, status, created_at
FROM participations WHERE event_id = ANY($1) ORDER BY event_id ASC, id ASC`
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	return records, nil
}
