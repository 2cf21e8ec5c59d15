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
	"sync"
	"testing"

	"github.com/jerry-enebeli/paydocs/internal/apierror"
	redlock "github.com/jerry-enebeli/paydocs/internal/lock"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func janeAccount() model.AccountDetails {
	return model.AccountDetails{
		AccountHolder: "Jane Doe",
		AccountNumber: "0123456789",
		BankName:      "ACME Bank",
	}
}

func TestCreateAndGetDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.paydocs.CreateDraft(ctx, janeAccount(), 100000)
	require.NoError(t, err)
	assert.NotEmpty(t, created.DraftID)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, "USD", created.Account.Currency)
	assert.Empty(t, created.Ledger.Lines)
	assert.True(t, env.redis.Exists(draftCachePrefix+created.DraftID))

	got, err := env.paydocs.GetDraft(ctx, created.DraftID)
	require.NoError(t, err)
	assert.Equal(t, created.DraftID, got.DraftID)
	assert.Equal(t, model.Amount(100000), got.Ledger.InitialBalance)
	assert.Equal(t, "1000.00", got.Ledger.ClosingBalance().String())
}

func TestGetDraft_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.paydocs.GetDraft(context.Background(), "draft_missing")
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetDraft_RejectsInvalidStoredLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	corrupt := *created
	corrupt.Ledger.Lines = []model.StatementLine{{
		Transaction: model.Transaction{TransactionID: "TXN1", Date: model.NewDate(2024, 1, 2), Description: "both", AmountIn: 100, AmountOut: 100},
		Balance:     0,
	}}
	require.NoError(t, env.paydocs.saveDraft(ctx, corrupt))

	_, err = env.paydocs.GetDraft(ctx, created.DraftID)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)

	_, err = env.paydocs.AddDraftTransaction(ctx, created.DraftID, entry("2024-01-03", "Fee", "", "1"))
	assert.Error(t, err)
}

// Scenarios A to D played against a stored draft.
func TestDraftLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 100000)
	require.NoError(t, err)

	draft, err = env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-05", "Deposit", "500", "0"))
	require.NoError(t, err)
	require.Len(t, draft.Ledger.Lines, 1)
	assert.Equal(t, "1500.00", draft.Ledger.Lines[0].Balance.String())
	assert.Equal(t, int64(2), draft.Version)

	draft, err = env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-03", "Rent", "0", "200"))
	require.NoError(t, err)
	require.Len(t, draft.Ledger.Lines, 2)
	assert.Equal(t, "2024-01-03", draft.Ledger.Lines[0].Date.String())
	assert.Equal(t, "800.00", draft.Ledger.Lines[0].Balance.String())
	assert.Equal(t, "1300.00", draft.Ledger.Lines[1].Balance.String())
	rentID := draft.Ledger.Lines[0].TransactionID

	_, err = env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-06", "Both", "100", "50"))
	assert.ErrorIs(t, err, model.ErrAmbiguousAmount)

	stored, err := env.paydocs.GetDraft(ctx, draft.DraftID)
	require.NoError(t, err)
	assert.Len(t, stored.Ledger.Lines, 2)
	assert.Equal(t, int64(3), stored.Version)

	draft, err = env.paydocs.RemoveDraftTransaction(ctx, draft.DraftID, rentID)
	require.NoError(t, err)
	require.Len(t, draft.Ledger.Lines, 1)
	assert.Equal(t, "1500.00", draft.Ledger.Lines[0].Balance.String())
	assert.Equal(t, int64(4), draft.Version)
}

func TestRemoveDraftTransaction_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	_, err = env.paydocs.RemoveDraftTransaction(ctx, draft.DraftID, "TXN404")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSetDraftInitialBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 100000)
	require.NoError(t, err)
	_, err = env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-05", "Deposit", "500", ""))
	require.NoError(t, err)

	draft, err = env.paydocs.SetDraftInitialBalance(ctx, draft.DraftID, 0)
	require.NoError(t, err)
	assert.Equal(t, "500.00", draft.Ledger.ClosingBalance().String())
}

func TestUpdateDraftAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	account := janeAccount()
	account.Currency = "kes"
	draft, err = env.paydocs.UpdateDraftAccount(ctx, draft.DraftID, account)
	require.NoError(t, err)
	assert.Equal(t, "KES", draft.Account.Currency)
	assert.Equal(t, int64(2), draft.Version)
}

func TestDeleteDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	require.NoError(t, env.paydocs.DeleteDraft(ctx, draft.DraftID))
	_, err = env.paydocs.GetDraft(ctx, draft.DraftID)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)

	err = env.paydocs.DeleteDraft(ctx, draft.DraftID)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)
}

func TestDraftEdits_LockHeld(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.paydocs.lockWait = 0

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	require.NoError(t, env.redis.Set(redlock.ResourceKey(draftLockResource, draft.DraftID), "someone-else"))

	_, err = env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-05", "Deposit", "500", ""))
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestDraftEdits_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.paydocs.CreateDraft(ctx, janeAccount(), 0)
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.paydocs.AddDraftTransaction(ctx, draft.DraftID, entry("2024-01-05", "Deposit", "10", ""))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := env.paydocs.GetDraft(ctx, draft.DraftID)
	require.NoError(t, err)
	assert.Len(t, stored.Ledger.Lines, writers)
	assert.Equal(t, int64(writers+1), stored.Version)
	assert.Equal(t, "80.00", stored.Ledger.ClosingBalance().String())
}
