/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/internal/cache"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statementRowColumns = []string{
	"statement_id", "account_holder", "account_number", "bank_name", "currency",
	"period_from", "period_to", "opening_balance", "closing_balance", "transaction_count", "created_at",
}

func statementRecordFixture() model.StatementRecord {
	return model.StatementRecord{
		StatementID:      "stmt_0001",
		AccountHolder:    "Jane Doe",
		AccountNumber:    "0123456789",
		BankName:         "ACME Bank",
		Currency:         "USD",
		PeriodFrom:       model.NewDate(2024, time.January, 1),
		PeriodTo:         model.NewDate(2024, time.January, 31),
		OpeningBalance:   100000,
		ClosingBalance:   220000,
		TransactionCount: 3,
		CreatedAt:        time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecordStatement_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	rec := statementRecordFixture()

	mock.ExpectExec("INSERT INTO paydocs.statements").
		WithArgs(rec.StatementID, rec.AccountHolder, rec.AccountNumber, rec.BankName, rec.Currency,
			rec.PeriodFrom.Time, rec.PeriodTo.Time, int64(100000), int64(220000), 3, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, ds.RecordStatement(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStatement_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO paydocs.statements").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})

	err = ds.RecordStatement(context.Background(), statementRecordFixture())
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestRecordStatement_Failure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO paydocs.statements").WillReturnError(errors.New("connection lost"))

	err = ds.RecordStatement(context.Background(), statementRecordFixture())
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
}

func TestGetStatementByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	rec := statementRecordFixture()

	rows := sqlmock.NewRows(statementRowColumns).AddRow(
		rec.StatementID, rec.AccountHolder, rec.AccountNumber, rec.BankName, rec.Currency,
		rec.PeriodFrom.Time, rec.PeriodTo.Time, int64(100000), int64(220000), 3, rec.CreatedAt)
	mock.ExpectQuery("SELECT .* FROM paydocs.statements WHERE statement_id = \\$1").
		WithArgs("stmt_0001").
		WillReturnRows(rows)

	got, err := ds.GetStatementByID(context.Background(), "stmt_0001")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
	assert.Equal(t, "2200.00", got.ClosingBalance.String())
}

func TestGetStatementByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM paydocs.statements WHERE statement_id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(statementRowColumns))

	_, err = ds.GetStatementByID(context.Background(), "missing")
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetStatementByID_Cached(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ds := Datasource{Conn: db, Cache: cache.NewRedisCache(client, cache.Options{Prefix: "paydocs:statements:"})}
	rec := statementRecordFixture()

	mock.ExpectQuery("SELECT .* FROM paydocs.statements WHERE statement_id = \\$1").
		WithArgs("stmt_0001").
		WillReturnRows(sqlmock.NewRows(statementRowColumns).AddRow(
			rec.StatementID, rec.AccountHolder, rec.AccountNumber, rec.BankName, rec.Currency,
			rec.PeriodFrom.Time, rec.PeriodTo.Time, int64(100000), int64(220000), 3, rec.CreatedAt))

	first, err := ds.GetStatementByID(context.Background(), "stmt_0001")
	require.NoError(t, err)

	// served from the cache, no second query expected
	second, err := ds.GetStatementByID(context.Background(), "stmt_0001")
	require.NoError(t, err)
	assert.Equal(t, first.StatementID, second.StatementID)
	assert.Equal(t, first.ClosingBalance, second.ClosingBalance)
	assert.True(t, first.PeriodTo.Equal(second.PeriodTo.Time))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	rec := statementRecordFixture()

	rows := sqlmock.NewRows(statementRowColumns).
		AddRow("stmt_2", rec.AccountHolder, rec.AccountNumber, rec.BankName, rec.Currency,
			rec.PeriodFrom.Time, rec.PeriodTo.Time, int64(0), int64(500), 1, rec.CreatedAt.Add(time.Hour)).
		AddRow("stmt_1", rec.AccountHolder, rec.AccountNumber, rec.BankName, rec.Currency,
			rec.PeriodFrom.Time, rec.PeriodTo.Time, int64(0), int64(100), 1, rec.CreatedAt)

	mock.ExpectQuery("SELECT .* FROM paydocs.statements ORDER BY created_at DESC, id DESC LIMIT \\$1").
		WithArgs(DefaultRecentLimit).
		WillReturnRows(rows)

	records, err := ds.GetRecentStatements(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "stmt_2", records[0].StatementID)
	assert.Equal(t, model.Amount(500), records[0].ClosingBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, normalizeLimit(0))
	assert.Equal(t, DefaultRecentLimit, normalizeLimit(-3))
	assert.Equal(t, 20, normalizeLimit(20))
	assert.Equal(t, MaxRecentLimit, normalizeLimit(5000))
}
