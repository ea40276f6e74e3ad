package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "org_id", "title", "event_date", "start_time", "end_time", "call_time", "location", "status",
		"objectives", "description", "expectations", "guidelines", "opportunities", "image_url", "created_at", "updated_at",
	})
}

func TestEventRepositoryListByOrg(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	rows := eventRows().
		AddRow("evt-1", "org-1", "Tree Planting", now, "08:00", "12:00", nil, "Plaza", nil,
			"Plant trees", "Drive", "", "", "", nil, now, now).
		AddRow("evt-2", "org-1", "Cleanup", now, nil, nil, nil, "River", "COMPLETED",
			"", "", "", "", "", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE org_id = $1 ORDER BY event_date ASC, id ASC")).
		WithArgs("org-1").
		WillReturnRows(rows)

	events, err := repo.ListByOrg(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Tree Planting", events[0].Title)
	require.NotNil(t, events[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE org_id = $1 AND id = $2")).
		WithArgs("org-1", "missing").
		WillReturnRows(eventRows())

	_, err := repo.GetByID(context.Background(), "org-1", "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
