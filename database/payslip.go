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

	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const payslipColumns = `payslip_id, employee_id, employee_name, period, currency,
	basic_salary, total_allowances, total_deductions, net_pay, created_at`

func (d Datasource) RecordPayslip(ctx context.Context, record model.PayslipRecord) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO paydocs.payslips (`+payslipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		record.PayslipID,
		record.EmployeeID,
		record.EmployeeName,
		record.Period,
		record.Currency,
		int64(record.BasicSalary),
		int64(record.TotalAllowances),
		int64(record.TotalDeductions),
		int64(record.NetPay),
		record.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Payslip with this ID already exists", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to archive payslip", errors.Wrap(err, "insert payslip"))
	}
	return nil
}

// GetRecentPayslips returns the newest payslips first.
func (d Datasource) GetRecentPayslips(ctx context.Context, limit int) ([]model.PayslipRecord, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+payslipColumns+`
		FROM paydocs.payslips
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, normalizeLimit(limit))
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payslips", errors.Wrap(err, "select payslips"))
	}
	defer rows.Close()

	records := []model.PayslipRecord{}
	for rows.Next() {
		var (
			record                             model.PayslipRecord
			basic, allowances, deductions, net int64
		)
		err := rows.Scan(
			&record.PayslipID,
			&record.EmployeeID,
			&record.EmployeeName,
			&record.Period,
			&record.Currency,
			&basic,
			&allowances,
			&deductions,
			&net,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan payslip data", err)
		}
		record.BasicSalary = model.Amount(basic)
		record.TotalAllowances = model.Amount(allowances)
		record.TotalDeductions = model.Amount(deductions)
		record.NetPay = model.Amount(net)
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over payslips", err)
	}
	return records, nil
}
