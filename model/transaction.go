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

package model

import (
	"strings"
)

// Transaction is a single statement entry in canonical form: money in and money out are
// non-negative and at most one of them is non-zero.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	Date          Date   `json:"date"`
	Description   string `json:"description"`
	AmountIn      Amount `json:"amount_in"`
	AmountOut     Amount `json:"amount_out"`
}

// Net is the signed effect of the transaction on the balance.
func (t Transaction) Net() Amount {
	return t.AmountIn - t.AmountOut
}

// IsCredit reports whether the transaction brings money in.
func (t Transaction) IsCredit() bool {
	return t.AmountIn > 0
}

// TransactionEntry is a transaction as submitted by a form or API caller. Callers use either the
// signed Amount (credit positive, debit negative) or the AmountIn/AmountOut pair, never both.
type TransactionEntry struct {
	TransactionID string  `json:"transaction_id,omitempty"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        *Amount `json:"amount,omitempty"`
	AmountIn      *Amount `json:"amount_in,omitempty"`
	AmountOut     *Amount `json:"amount_out,omitempty"`
}

// Normalize validates the entry and converts it to a canonical Transaction. The transaction id is
// copied as given and may be empty; id assignment belongs to the ledger.
func (e TransactionEntry) Normalize() (Transaction, error) {
	if strings.TrimSpace(e.Date) == "" {
		return Transaction{}, MissingField("date")
	}
	date, err := ParseDate(e.Date)
	if err != nil {
		return Transaction{}, newValidationError(KindInvalidDate, "date", "%s", err.Error())
	}

	description := strings.TrimSpace(e.Description)
	if description == "" {
		return Transaction{}, MissingField("description")
	}

	in, out, err := e.amounts()
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		TransactionID: strings.TrimSpace(e.TransactionID),
		Date:          date,
		Description:   description,
		AmountIn:      in,
		AmountOut:     out,
	}, nil
}

// amounts picks the amount form by which fields carry a non-zero value, so blank or zero
// fields left over from the other form are ignored.
func (e TransactionEntry) amounts() (Amount, Amount, error) {
	signed, in, out := valueOf(e.Amount), valueOf(e.AmountIn), valueOf(e.AmountOut)
	hasSigned := !signed.IsZero()
	hasPair := !in.IsZero() || !out.IsZero()

	switch {
	case hasSigned && hasPair:
		return 0, 0, newValidationError(KindAmbiguousAmount, "amount", "use either amount or amount_in/amount_out, not both")
	case hasSigned:
		if signed.IsNegative() {
			return 0, signed.Abs(), nil
		}
		return signed, 0, nil
	case hasPair:
		if in.IsNegative() {
			return 0, 0, newValidationError(KindInvalidAmount, "amount_in", "amount_in cannot be negative")
		}
		if out.IsNegative() {
			return 0, 0, newValidationError(KindInvalidAmount, "amount_out", "amount_out cannot be negative")
		}
		if !in.IsZero() && !out.IsZero() {
			return 0, 0, newValidationError(KindAmbiguousAmount, "amount", "enter either an in amount or an out amount, not both")
		}
		return in, out, nil
	default:
		return 0, 0, MissingField("amount")
	}
}

func valueOf(a *Amount) Amount {
	if a == nil {
		return 0
	}
	return *a
}

// Validate checks the canonical invariants of an already-normalized transaction.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return MissingField("date")
	}
	if strings.TrimSpace(t.Description) == "" {
		return MissingField("description")
	}
	if t.AmountIn.IsNegative() {
		return newValidationError(KindInvalidAmount, "amount_in", "amount_in cannot be negative")
	}
	if t.AmountOut.IsNegative() {
		return newValidationError(KindInvalidAmount, "amount_out", "amount_out cannot be negative")
	}
	if !t.AmountIn.IsZero() && !t.AmountOut.IsZero() {
		return newValidationError(KindAmbiguousAmount, "amount", "enter either an in amount or an out amount, not both")
	}
	if t.AmountIn.IsZero() && t.AmountOut.IsZero() {
		return MissingField("amount")
	}
	return nil
}
