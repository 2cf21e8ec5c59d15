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

package mocks

import (
	"context"

	"github.com/jerry-enebeli/paydocs/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Statement methods

func (m *MockDataSource) RecordStatement(ctx context.Context, record model.StatementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataSource) GetStatementByID(ctx context.Context, id string) (*model.StatementRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatementRecord), args.Error(1)
}

func (m *MockDataSource) GetRecentStatements(ctx context.Context, limit int) ([]model.StatementRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.StatementRecord), args.Error(1)
}

// Payslip methods

func (m *MockDataSource) RecordPayslip(ctx context.Context, record model.PayslipRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataSource) GetRecentPayslips(ctx context.Context, limit int) ([]model.PayslipRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.PayslipRecord), args.Error(1)
}
