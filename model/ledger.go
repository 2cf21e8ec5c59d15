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

// StatementLine is a transaction annotated with the running balance after it was applied.
type StatementLine struct {
	Transaction
	Balance Amount `json:"balance"`
}

// Ledger is the computed statement: an opening balance and its lines in date order.
// It is always rebuilt as a whole and never patched in place.
type Ledger struct {
	InitialBalance Amount          `json:"initial_balance"`
	Lines          []StatementLine `json:"lines"`
}

// Summary aggregates a ledger for the statement footer.
type Summary struct {
	TotalIn     Amount `json:"total_in"`
	TotalOut    Amount `json:"total_out"`
	NetChange   Amount `json:"net_change"`
	LineCount   int    `json:"line_count"`
	CreditCount int    `json:"credit_count"`
	DebitCount  int    `json:"debit_count"`
}

// Transactions returns the ledger's transactions in their current order, without balances.
func (l Ledger) Transactions() []Transaction {
	txns := make([]Transaction, len(l.Lines))
	for i, line := range l.Lines {
		txns[i] = line.Transaction
	}
	return txns
}

// ClosingBalance is the balance after the last line, or the initial balance of an empty ledger.
func (l Ledger) ClosingBalance() Amount {
	if len(l.Lines) == 0 {
		return l.InitialBalance
	}
	return l.Lines[len(l.Lines)-1].Balance
}

// Find returns the index of the line carrying id, or -1.
func (l Ledger) Find(id string) int {
	for i, line := range l.Lines {
		if line.TransactionID == id {
			return i
		}
	}
	return -1
}

// Summary totals money in and out across the ledger.
func (l Ledger) Summary() Summary {
	s := Summary{LineCount: len(l.Lines)}
	for _, line := range l.Lines {
		s.TotalIn += line.AmountIn
		s.TotalOut += line.AmountOut
		if line.IsCredit() {
			s.CreditCount++
		} else {
			s.DebitCount++
		}
	}
	s.NetChange = s.TotalIn - s.TotalOut
	return s
}

// Period returns the first and last line dates, zero when the ledger is empty.
func (l Ledger) Period() (Date, Date) {
	if len(l.Lines) == 0 {
		return Date{}, Date{}
	}
	return l.Lines[0].Date, l.Lines[len(l.Lines)-1].Date
}
