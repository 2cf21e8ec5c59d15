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

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	model2 "github.com/jerry-enebeli/paydocs/api/model"
	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createDraft(t *testing.T, s *testServer, initial string) model.StatementDraft {
	t.Helper()
	var draft model.StatementDraft
	resp, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    "/statements/drafts",
		Payload:  jsonBody(t, model2.CreateDraft{Account: fakeAccount(), InitialBalance: *amountOf(t, initial)}),
		Response: &draft,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotEmpty(t, draft.DraftID)
	return draft
}

func TestDraftLifecycle(t *testing.T) {
	s := setupRouter(t)
	draft := createDraft(t, s, "1000")
	route := "/statements/drafts/" + draft.DraftID

	var afterCredit model.StatementDraft
	resp, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    route + "/transactions",
		Payload:  jsonBody(t, model.TransactionEntry{Date: "2024-01-05", Description: "Salary", AmountIn: amountOf(t, "500")}),
		Response: &afterCredit,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Len(t, afterCredit.Ledger.Lines, 1)
	assert.Equal(t, "1500.00", afterCredit.Ledger.Lines[0].Balance.String())

	var afterDebit model.StatementDraft
	resp, err = SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    route + "/transactions",
		Payload:  jsonBody(t, model.TransactionEntry{Date: "2024-01-03", Description: "Rent", Amount: amountOf(t, "-200")}),
		Response: &afterDebit,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Len(t, afterDebit.Ledger.Lines, 2)
	assert.Equal(t, "Rent", afterDebit.Ledger.Lines[0].Description)
	assert.Equal(t, "800.00", afterDebit.Ledger.Lines[0].Balance.String())
	assert.Equal(t, "1300.00", afterDebit.Ledger.Lines[1].Balance.String())

	var rebalanced model.StatementDraft
	resp, err = SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPut,
		Route:    route + "/initial-balance",
		Payload:  jsonBody(t, model2.SetInitialBalance{InitialBalance: amountOf(t, "0")}),
		Response: &rebalanced,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "300.00", rebalanced.Ledger.ClosingBalance().String())

	rentID := rebalanced.Ledger.Lines[0].TransactionID
	var removed model.StatementDraft
	resp, err = SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodDelete,
		Route:    route + "/transactions/" + rentID,
		Response: &removed,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, removed.Ledger.Lines, 1)
	assert.Equal(t, "500.00", removed.Ledger.Lines[0].Balance.String())

	var fetched model.StatementDraft
	resp, err = SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodGet, Route: route, Response: &fetched})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, removed.Version, fetched.Version)

	resp, err = SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodDelete, Route: route})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	var missing apierror.APIError
	resp, err = SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodGet, Route: route, Response: &missing})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, apierror.ErrNotFound, missing.Code)
}

func TestAddDraftTransaction_InvalidLeavesDraftUntouched(t *testing.T) {
	s := setupRouter(t)
	draft := createDraft(t, s, "100")
	route := "/statements/drafts/" + draft.DraftID

	var response apierror.APIError
	resp, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    route + "/transactions",
		Payload:  jsonBody(t, model.TransactionEntry{Date: "2024-01-05", AmountIn: amountOf(t, "10")}),
		Response: &response,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, apierror.ErrInvalidInput, response.Code)

	var fetched model.StatementDraft
	_, err = SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodGet, Route: route, Response: &fetched})
	require.NoError(t, err)
	assert.Empty(t, fetched.Ledger.Lines)
	assert.Equal(t, draft.Version, fetched.Version)
}

func TestRemoveDraftTransaction_NotFound(t *testing.T) {
	s := setupRouter(t)
	draft := createDraft(t, s, "100")

	var response apierror.APIError
	resp, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodDelete,
		Route:    "/statements/drafts/" + draft.DraftID + "/transactions/TXN000000",
		Response: &response,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, apierror.ErrNotFound, response.Code)
}

func TestCreateDraft_ValidationError(t *testing.T) {
	s := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    "/statements/drafts",
		Payload:  jsonBody(t, model2.CreateDraft{Account: model2.Account{AccountNumber: "123"}}),
		Response: &response,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, response["errors"], "account_holder")
}

func TestGenerateDraftStatement(t *testing.T) {
	s := setupRouter(t)
	draft := createDraft(t, s, "1000")
	route := "/statements/drafts/" + draft.DraftID

	_, err := SetUpTestRequest(TestRequest{
		Router:   s.router,
		Method:   http.MethodPost,
		Route:    route + "/transactions",
		Payload:  jsonBody(t, model.TransactionEntry{Date: "2024-01-05", Description: "Salary", AmountIn: amountOf(t, "500")}),
		Response: &model.StatementDraft{},
	})
	require.NoError(t, err)

	s.renderer.On("RenderStatement", mock.Anything, mock.MatchedBy(func(doc model.StatementDocument) bool {
		return doc.ClosingBalance.String() == "1500.00" && doc.Account.PeriodFrom.String() == "2024-01-05"
	})).Return(model.Document{Filename: "statement.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.4")}, nil)
	s.datasource.On("RecordStatement", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, route+"/generate", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "statement.pdf")
	assert.NotEmpty(t, w.Header().Get("X-Document-Id"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	s.renderer.AssertExpectations(t)
	s.datasource.AssertExpectations(t)

	resp, err := SetUpTestRequest(TestRequest{Router: s.router, Method: http.MethodGet, Route: route, Response: &model.StatementDraft{}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
}
