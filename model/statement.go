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
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultCurrency is used when a statement does not name one.
const DefaultCurrency = "USD"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// filenamePart keeps caller-supplied text safe to embed in a download name.
func filenamePart(value string) string {
	part := strings.Trim(unsafeFilenameChars.ReplaceAllString(value, "_"), "_")
	if part == "" {
		return "document"
	}
	return part
}

// AccountDetails identifies the account a statement is printed for. These are display
// parameters only and never take part in balance computation.
type AccountDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name,omitempty"`
	BankLogo      string `json:"bank_logo,omitempty"`
	Currency      string `json:"currency"`
	PeriodFrom    Date   `json:"period_from"`
	PeriodTo      Date   `json:"period_to"`
}

// ApplyDefaults trims the text fields and fills in the currency.
func (a *AccountDetails) ApplyDefaults() {
	a.AccountHolder = strings.TrimSpace(a.AccountHolder)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	a.BankName = strings.TrimSpace(a.BankName)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Currency == "" {
		a.Currency = DefaultCurrency
	}
}

// ValidateForStatement checks that the account can be printed on a statement.
func (a AccountDetails) ValidateForStatement() error {
	if a.AccountHolder == "" {
		return MissingField("account_holder")
	}
	if a.AccountNumber == "" {
		return MissingField("account_number")
	}
	if a.PeriodFrom.IsZero() {
		return MissingField("period_from")
	}
	if a.PeriodTo.IsZero() {
		return MissingField("period_to")
	}
	if a.PeriodFrom.After(a.PeriodTo) {
		return newValidationError(KindInvalidDate, "period_to", "period_to %s is before period_from %s", a.PeriodTo, a.PeriodFrom)
	}
	return nil
}

// StatementDraft is an in-progress statement kept between edits.
type StatementDraft struct {
	DraftID   string         `json:"draft_id"`
	Account   AccountDetails `json:"account"`
	Ledger    Ledger         `json:"ledger"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StatementDocument is the payload handed to the document service for a bank statement.
type StatementDocument struct {
	StatementID    string          `json:"statement_id"`
	Account        AccountDetails  `json:"account"`
	InitialBalance Amount          `json:"initial_balance"`
	ClosingBalance Amount          `json:"closing_balance"`
	Summary        Summary         `json:"summary"`
	Lines          []StatementLine `json:"transactions"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// NewStatementDocument assembles the export payload from a computed ledger.
func NewStatementDocument(id string, account AccountDetails, ledger Ledger, now time.Time) StatementDocument {
	return StatementDocument{
		StatementID:    id,
		Account:        account,
		InitialBalance: ledger.InitialBalance,
		ClosingBalance: ledger.ClosingBalance(),
		Summary:        ledger.Summary(),
		Lines:          ledger.Lines,
		GeneratedAt:    now,
	}
}

// Filename is the default download name for the statement.
func (d StatementDocument) Filename() string {
	return fmt.Sprintf("bank_statement_%s_%s.pdf", filenamePart(d.Account.AccountNumber), d.GeneratedAt.Format("20060102"))
}

// PayslipDocument is the payload handed to the document service for a payslip.
type PayslipDocument struct {
	PayslipID   string        `json:"payslip_id"`
	CompanyName string        `json:"company_name,omitempty"`
	Payslip     Payslip       `json:"payslip"`
	Totals      PayslipTotals `json:"totals"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Filename is the default download name for the payslip.
func (d PayslipDocument) Filename() string {
	return fmt.Sprintf("payslip_%s_%s.pdf", filenamePart(d.Payslip.EmployeeID), d.GeneratedAt.Format("20060102"))
}

// Document is a rendered binary returned by the document service.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

// StatementRecord is the archived summary of a generated statement.
type StatementRecord struct {
	StatementID      string    `json:"statement_id"`
	AccountHolder    string    `json:"account_holder"`
	AccountNumber    string    `json:"account_number"`
	BankName         string    `json:"bank_name"`
	Currency         string    `json:"currency"`
	PeriodFrom       Date      `json:"period_from"`
	PeriodTo         Date      `json:"period_to"`
	OpeningBalance   Amount    `json:"opening_balance"`
	ClosingBalance   Amount    `json:"closing_balance"`
	TransactionCount int       `json:"transaction_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToRecord summarizes the document for the archive.
func (d StatementDocument) ToRecord() StatementRecord {
	return StatementRecord{
		StatementID:      d.StatementID,
		AccountHolder:    d.Account.AccountHolder,
		AccountNumber:    d.Account.AccountNumber,
		BankName:         d.Account.BankName,
		Currency:         d.Account.Currency,
		PeriodFrom:       d.Account.PeriodFrom,
		PeriodTo:         d.Account.PeriodTo,
		OpeningBalance:   d.InitialBalance,
		ClosingBalance:   d.ClosingBalance,
		TransactionCount: len(d.Lines),
		CreatedAt:        d.GeneratedAt,
	}
}

// PayslipRecord is the archived summary of a generated payslip.
type PayslipRecord struct {
	PayslipID       string    `json:"payslip_id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	Period          string    `json:"period"`
	Currency        string    `json:"currency"`
	BasicSalary     Amount    `json:"basic_salary"`
	TotalAllowances Amount    `json:"total_allowances"`
	TotalDeductions Amount    `json:"total_deductions"`
	NetPay          Amount    `json:"net_pay"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToRecord summarizes the document for the archive.
func (d PayslipDocument) ToRecord() PayslipRecord {
	return PayslipRecord{
		PayslipID:       d.PayslipID,
		EmployeeID:      d.Payslip.EmployeeID,
		EmployeeName:    d.Payslip.EmployeeName,
		Period:          d.Payslip.Period,
		Currency:        d.Payslip.Currency,
		BasicSalary:     d.Totals.BasicSalary,
		TotalAllowances: d.Totals.TotalAllowances,
		TotalDeductions: d.Totals.TotalDeductions,
		NetPay:          d.Totals.NetPay,
		CreatedAt:       d.GeneratedAt,
	}
}
