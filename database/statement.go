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
	"database/sql"
	"time"

	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/internal/cache"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const statementColumns = `statement_id, account_holder, account_number, bank_name, currency,
	period_from, period_to, opening_balance, closing_balance, transaction_count, created_at`

func (d Datasource) RecordStatement(ctx context.Context, record model.StatementRecord) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO paydocs.statements (`+statementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		record.StatementID,
		record.AccountHolder,
		record.AccountNumber,
		record.BankName,
		record.Currency,
		record.PeriodFrom.Time,
		record.PeriodTo.Time,
		int64(record.OpeningBalance),
		int64(record.ClosingBalance),
		record.TransactionCount,
		record.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Statement with this ID already exists", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to archive statement", errors.Wrap(err, "insert statement"))
	}
	return nil
}

func (d Datasource) GetStatementByID(ctx context.Context, id string) (*model.StatementRecord, error) {
	if d.Cache != nil {
		var cached model.StatementRecord
		err := d.Cache.Get(ctx, id, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logrus.WithError(err).WithField("statement_id", id).Warn("statement cache lookup failed")
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+statementColumns+`
		FROM paydocs.statements
		WHERE statement_id = $1
	`, id)

	record, err := scanStatement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Statement not found", nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve statement", errors.Wrap(err, "select statement"))
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, id, record, recordCacheTTL); err != nil {
			logrus.WithError(err).WithField("statement_id", id).Warn("failed to cache statement")
		}
	}
	return &record, nil
}

// GetRecentStatements returns the newest statements first.
func (d Datasource) GetRecentStatements(ctx context.Context, limit int) ([]model.StatementRecord, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+statementColumns+`
		FROM paydocs.statements
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, normalizeLimit(limit))
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve statements", errors.Wrap(err, "select statements"))
	}
	defer rows.Close()

	records := []model.StatementRecord{}
	for rows.Next() {
		record, err := scanStatement(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan statement data", err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over statements", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStatement(s scanner) (model.StatementRecord, error) {
	var (
		record           model.StatementRecord
		periodFrom       time.Time
		periodTo         time.Time
		opening, closing int64
	)
	err := s.Scan(
		&record.StatementID,
		&record.AccountHolder,
		&record.AccountNumber,
		&record.BankName,
		&record.Currency,
		&periodFrom,
		&periodTo,
		&opening,
		&closing,
		&record.TransactionCount,
		&record.CreatedAt,
	)
	if err != nil {
		return model.StatementRecord{}, err
	}
	record.PeriodFrom = model.DateOf(periodFrom)
	record.PeriodTo = model.DateOf(periodTo)
	record.OpeningBalance = model.Amount(opening)
	record.ClosingBalance = model.Amount(closing)
	return record, nil
}
