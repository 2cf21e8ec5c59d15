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

package paydocs

import (
	"context"

	"github.com/jerry-enebeli/paydocs/model"
	"github.com/stretchr/testify/mock"
)

// MockRenderer stands in for the document service.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderStatement(ctx context.Context, doc model.StatementDocument) (model.Document, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockRenderer) RenderPayslip(ctx context.Context, doc model.PayslipDocument) (model.Document, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.Document), args.Error(1)
}
