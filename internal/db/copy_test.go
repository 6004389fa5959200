package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "eca_activities", []string{"run_id", "activity_id"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"eca_activities"}, []string{"run_id", "activity_id"}).WillReturnResult(3)

	rows := [][]any{{"r1", "P1"}, {"r1", "P2"}, {"r1", "P3"}}
	n, err := CopyFrom(context.Background(), mock, "eca_activities", []string{"run_id", "activity_id"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_SchemaQualified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"eca", "activities"}, []string{"id"}).WillReturnResult(1)

	n, err := CopyFrom(context.Background(), mock, "eca.activities", []string{"id"}, [][]any{{"P1"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"eca_activities"}, []string{"id"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "eca_activities", []string{"id"}, [][]any{{"P1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO eca_activities")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, pgx.Identifier{"simple"}, identifier("simple"))
	assert.Equal(t, pgx.Identifier{"eca", "activities"}, identifier("eca.activities"))
	assert.Equal(t, `"eca"."activities"`, identifier("eca.activities").Sanitize())
}
