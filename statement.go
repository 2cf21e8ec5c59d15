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

	"github.com/jerry-enebeli/paydocs/internal/notification"
	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GeneratedStatement pairs the statement sent for rendering with the rendered file.
type GeneratedStatement struct {
	Statement model.StatementDocument
	Document  model.Document
}

// ComputeLedger builds a ledger from scratch without storing anything.
func (p *Paydocs) ComputeLedger(initialBalance model.Amount, entries []model.TransactionEntry) (model.Ledger, error) {
	return p.calculator.AddTransactions(ledger.Empty(initialBalance), entries)
}

// GenerateStatement computes the ledger for entries and renders it as a statement.
func (p *Paydocs) GenerateStatement(ctx context.Context, account model.AccountDetails, initialBalance model.Amount, entries []model.TransactionEntry) (*GeneratedStatement, error) {
	computed, err := p.ComputeLedger(initialBalance, entries)
	if err != nil {
		return nil, err
	}
	return p.renderStatement(ctx, account, computed)
}

// GenerateDraftStatement renders the current state of a draft. A non-nil
// account replaces the draft's account details for this statement only.
func (p *Paydocs) GenerateDraftStatement(ctx context.Context, draftID string, account *model.AccountDetails) (*GeneratedStatement, error) {
	draft, err := p.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	details := draft.Account
	if account != nil {
		details = *account
	}

	generated, err := p.renderStatement(ctx, details, draft.Ledger)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"draft_id":     draftID,
		"statement_id": generated.Statement.StatementID,
	}).Info("statement generated from draft")
	return generated, nil
}

func (p *Paydocs) GetStatement(ctx context.Context, id string) (*model.StatementRecord, error) {
	return p.datasource.GetStatementByID(ctx, id)
}

func (p *Paydocs) GetRecentStatements(ctx context.Context, limit int) ([]model.StatementRecord, error) {
	return p.datasource.GetRecentStatements(ctx, limit)
}

func (p *Paydocs) renderStatement(ctx context.Context, account model.AccountDetails, computed model.Ledger) (*GeneratedStatement, error) {
	account.ApplyDefaults()
	if account.PeriodFrom.IsZero() || account.PeriodTo.IsZero() {
		first, last := computed.Period()
		if account.PeriodFrom.IsZero() {
			account.PeriodFrom = first
		}
		if account.PeriodTo.IsZero() {
			account.PeriodTo = last
		}
	}
	if err := account.ValidateForStatement(); err != nil {
		return nil, err
	}

	doc := model.NewStatementDocument(model.GenerateUUIDWithSuffix("stmt"), account, computed, p.now().UTC())
	rendered, err := p.renderer.RenderStatement(ctx, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render statement %s", doc.StatementID)
	}

	if err := p.datasource.RecordStatement(ctx, doc.ToRecord()); err != nil {
		// the rendered file is returned even when archiving fails
		notification.NotifyError(errors.Wrapf(err, "failed to archive statement %s", doc.StatementID))
	}

	logrus.WithFields(logrus.Fields{
		"statement_id":   doc.StatementID,
		"account_number": account.AccountNumber,
		"lines":          len(doc.Lines),
	}).Info("statement generated")
	return &GeneratedStatement{Statement: doc, Document: rendered}, nil
}
