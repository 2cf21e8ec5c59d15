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

// Package ledger computes balance-annotated bank statements. Every operation takes the full
// current ledger and returns a new one; nothing here keeps state between calls or performs I/O.
package ledger

import (
	"fmt"
	"sort"

	"github.com/jerry-enebeli/paydocs/model"
)

// Calculator applies edits to ledgers. It only holds the id generator used for transactions
// submitted without an id.
type Calculator struct {
	ids IDGenerator
}

// NewCalculator returns a Calculator using ids, or the timestamp scheme when ids is nil.
func NewCalculator(ids IDGenerator) *Calculator {
	if ids == nil {
		ids = TimestampIDs{}
	}
	return &Calculator{ids: ids}
}

// RowError reports which entry of a batch failed.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// AddTransaction validates entry, assigns an id when it has none, appends it and rebuilds the
// ledger. On error the returned ledger is the unchanged input.
func (c *Calculator) AddTransaction(state model.Ledger, entry model.TransactionEntry) (model.Ledger, error) {
	txn, err := entry.Normalize()
	if err != nil {
		return state, err
	}

	if txn.TransactionID == "" {
		txn.TransactionID = c.ids.Generate(func(id string) bool { return state.Find(id) >= 0 })
	} else if state.Find(txn.TransactionID) >= 0 {
		return state, &model.ValidationError{
			Kind:    model.KindDuplicateID,
			Field:   "transaction_id",
			Message: fmt.Sprintf("transaction %s already exists", txn.TransactionID),
		}
	}

	next, err := Build(state.InitialBalance, append(state.Transactions(), txn))
	if err != nil {
		return state, err
	}
	return next, nil
}

// AddTransactions adds entries in order. The first invalid entry aborts the batch with a
// *RowError and the input ledger is returned unchanged.
func (c *Calculator) AddTransactions(state model.Ledger, entries []model.TransactionEntry) (model.Ledger, error) {
	next := state
	for i, entry := range entries {
		var err error
		next, err = c.AddTransaction(next, entry)
		if err != nil {
			return state, &RowError{Index: i, Err: err}
		}
	}
	return next, nil
}

// RemoveTransaction drops the transaction with the given id and rebuilds the ledger.
func RemoveTransaction(state model.Ledger, id string) (model.Ledger, error) {
	idx := state.Find(id)
	if idx < 0 {
		return state, model.NotFound(id)
	}

	txns := state.Transactions()
	txns = append(txns[:idx], txns[idx+1:]...)
	next, err := Build(state.InitialBalance, txns)
	if err != nil {
		return state, err
	}
	return next, nil
}

// SetInitialBalance rebuilds the ledger from a new opening balance. On error the input ledger
// is returned unchanged.
func SetInitialBalance(state model.Ledger, initial model.Amount) (model.Ledger, error) {
	next, err := Build(initial, state.Transactions())
	if err != nil {
		return state, err
	}
	return next, nil
}

// Empty is a ledger with an opening balance and no lines.
func Empty(initial model.Amount) model.Ledger {
	return model.Ledger{InitialBalance: initial, Lines: []model.StatementLine{}}
}

// Build sorts txns and folds them into a ledger starting at initial.
func Build(initial model.Amount, txns []model.Transaction) (model.Ledger, error) {
	lines, err := RecomputeBalances(SortTransactions(txns), initial)
	if err != nil {
		return model.Ledger{}, err
	}
	return model.Ledger{InitialBalance: initial, Lines: lines}, nil
}

// SortTransactions returns a copy of txns ordered by date. Transactions on the same date keep
// their relative order.
func SortTransactions(txns []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// RecomputeBalances folds sorted transactions into statement lines:
// balance[i] = balance[i-1] + in[i] - out[i], with balance[-1] = initial.
// The running balance and the in/out totals must stay within Amount, otherwise an
// INVALID_AMOUNT error is returned.
func RecomputeBalances(sorted []model.Transaction, initial model.Amount) ([]model.StatementLine, error) {
	lines := make([]model.StatementLine, len(sorted))
	balance := initial
	var totalIn, totalOut model.Amount
	var ok bool
	for i, txn := range sorted {
		if totalIn, ok = totalIn.CheckedAdd(txn.AmountIn); !ok {
			return nil, model.OutOfRange("amount_in")
		}
		if totalOut, ok = totalOut.CheckedAdd(txn.AmountOut); !ok {
			return nil, model.OutOfRange("amount_out")
		}
		if balance, ok = balance.CheckedAdd(txn.Net()); !ok {
			return nil, model.OutOfRange("balance")
		}
		lines[i] = model.StatementLine{Transaction: txn, Balance: balance}
	}
	return lines, nil
}
