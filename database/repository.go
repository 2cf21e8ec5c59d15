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

	"github.com/jerry-enebeli/paydocs/model"
)

// IDataSource groups the archive operations used by the service.
type IDataSource interface {
	statement
	payslip
}

type statement interface {
	RecordStatement(ctx context.Context, record model.StatementRecord) error
	GetStatementByID(ctx context.Context, id string) (*model.StatementRecord, error)
	GetRecentStatements(ctx context.Context, limit int) ([]model.StatementRecord, error)
}

type payslip interface {
	RecordPayslip(ctx context.Context, record model.PayslipRecord) error
	GetRecentPayslips(ctx context.Context, limit int) ([]model.PayslipRecord, error)
}
