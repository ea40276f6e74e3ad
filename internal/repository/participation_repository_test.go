package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestParticipationRepositoryListByEventIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "event_id", "volunteer_id", "status", "created_at"}).
		AddRow("p1", "evt-1", "vol-1", "APPROVED", time.Now()).
		AddRow("p2", "evt-1", "vol-2", "PENDING", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM participations WHERE event_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	records, err := repo.ListByEventIDs(context.Background(), []string{"evt-1", "evt-2"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRepositoryEmptyInput(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipationRepository(db)

	records, err := repo.ListByEventIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, records)
}
