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
	"errors"

	"github.com/jerry-enebeli/paydocs/internal/apierror"
	"github.com/jerry-enebeli/paydocs/internal/cache"
	redlock "github.com/jerry-enebeli/paydocs/internal/lock"
	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/sirupsen/logrus"
)

const draftLockResource = "draft"

// CreateDraft starts an empty statement draft for account.
func (p *Paydocs) CreateDraft(ctx context.Context, account model.AccountDetails, initialBalance model.Amount) (*model.StatementDraft, error) {
	account.ApplyDefaults()
	now := p.now().UTC()
	draft := model.StatementDraft{
		DraftID:   model.GenerateUUIDWithSuffix("draft"),
		Account:   account,
		Ledger:    ledger.Empty(initialBalance),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	logrus.WithField("draft_id", draft.DraftID).Info("statement draft created")
	return &draft, nil
}

func (p *Paydocs) GetDraft(ctx context.Context, id string) (*model.StatementDraft, error) {
	draft, err := p.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// AddDraftTransaction validates entry and appends it to the draft ledger.
func (p *Paydocs) AddDraftTransaction(ctx context.Context, id string, entry model.TransactionEntry) (*model.StatementDraft, error) {
	return p.updateDraft(ctx, id, func(state model.Ledger) (model.Ledger, error) {
		return p.calculator.AddTransaction(state, entry)
	})
}

func (p *Paydocs) RemoveDraftTransaction(ctx context.Context, id, transactionID string) (*model.StatementDraft, error) {
	return p.updateDraft(ctx, id, func(state model.Ledger) (model.Ledger, error) {
		return ledger.RemoveTransaction(state, transactionID)
	})
}

func (p *Paydocs) SetDraftInitialBalance(ctx context.Context, id string, initialBalance model.Amount) (*model.StatementDraft, error) {
	return p.updateDraft(ctx, id, func(state model.Ledger) (model.Ledger, error) {
		return ledger.SetInitialBalance(state, initialBalance)
	})
}

// UpdateDraftAccount replaces the account details printed on the statement.
func (p *Paydocs) UpdateDraftAccount(ctx context.Context, id string, account model.AccountDetails) (*model.StatementDraft, error) {
	account.ApplyDefaults()
	return p.mutateDraft(ctx, id, func(draft *model.StatementDraft) error {
		draft.Account = account
		return nil
	})
}

func (p *Paydocs) DeleteDraft(ctx context.Context, id string) error {
	locker := redlock.NewResourceLocker(p.redis, draftLockResource, id)
	err := locker.WithLock(ctx, p.lockTTL, p.lockWait, func() error {
		if _, err := p.loadDraft(ctx, id); err != nil {
			return err
		}
		if err := p.drafts.Delete(ctx, id); err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete draft", err)
		}
		return nil
	})
	if err != nil {
		return lockError(err)
	}
	logrus.WithField("draft_id", id).Info("statement draft deleted")
	return nil
}

func (p *Paydocs) updateDraft(ctx context.Context, id string, apply func(model.Ledger) (model.Ledger, error)) (*model.StatementDraft, error) {
	return p.mutateDraft(ctx, id, func(draft *model.StatementDraft) error {
		next, err := apply(draft.Ledger)
		if err != nil {
			return err
		}
		draft.Ledger = next
		return nil
	})
}

// mutateDraft serializes edits to one draft: lock, load, apply, bump the
// version and save. A failed apply leaves the stored draft as it was.
func (p *Paydocs) mutateDraft(ctx context.Context, id string, apply func(*model.StatementDraft) error) (*model.StatementDraft, error) {
	var updated model.StatementDraft

	locker := redlock.NewResourceLocker(p.redis, draftLockResource, id)
	err := locker.WithLock(ctx, p.lockTTL, p.lockWait, func() error {
		draft, err := p.loadDraft(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(&draft); err != nil {
			return err
		}
		draft.Version++
		draft.UpdatedAt = p.now().UTC()
		if err := p.saveDraft(ctx, draft); err != nil {
			return err
		}
		updated = draft
		return nil
	})
	if err != nil {
		return nil, lockError(err)
	}

	logrus.WithFields(logrus.Fields{
		"draft_id": id,
		"version":  updated.Version,
		"lines":    len(updated.Ledger.Lines),
	}).Debug("statement draft updated")
	return &updated, nil
}

func (p *Paydocs) loadDraft(ctx context.Context, id string) (model.StatementDraft, error) {
	var draft model.StatementDraft
	err := p.drafts.Get(ctx, id, &draft)
	if errors.Is(err, cache.ErrCacheMiss) {
		return model.StatementDraft{}, apierror.NewAPIError(apierror.ErrNotFound, "Draft not found", nil)
	}
	if err != nil {
		return model.StatementDraft{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to load draft", err)
	}
	for _, line := range draft.Ledger.Lines {
		if err := line.Validate(); err != nil {
			return model.StatementDraft{}, apierror.NewAPIError(apierror.ErrInternalServer, "Stored draft is invalid", err.Error())
		}
	}
	return draft, nil
}

func (p *Paydocs) saveDraft(ctx context.Context, draft model.StatementDraft) error {
	if err := p.drafts.Set(ctx, draft.DraftID, draft, p.draftTTL); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save draft", err)
	}
	return nil
}

func lockError(err error) error {
	if errors.Is(err, redlock.ErrWaitTimeout) {
		return apierror.NewAPIError(apierror.ErrConflict, "Draft is being modified, try again", err.Error())
	}
	return err
}
