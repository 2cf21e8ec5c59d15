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
	"strings"
	"time"
)

// PeriodLayout is the wire format of a pay period.
const PeriodLayout = "2006-01"

// PayItem is a named allowance or deduction line.
type PayItem struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// Payslip carries everything needed to compute and print one employee's pay for a period.
type Payslip struct {
	EmployeeName string    `json:"employee_name"`
	EmployeeID   string    `json:"employee_id"`
	Designation  string    `json:"designation,omitempty"`
	Station      string    `json:"station,omitempty"`
	TaxPIN       string    `json:"tax_pin,omitempty"`
	BankDetails  string    `json:"bank_details,omitempty"`
	Period       string    `json:"period"`
	Currency     string    `json:"currency"`
	BasicSalary  Amount    `json:"basic_salary"`
	Allowances   []PayItem `json:"allowances"`
	Deductions   []PayItem `json:"deductions"`
}

// PayslipTotals is the computed pay summary.
type PayslipTotals struct {
	BasicSalary     Amount `json:"basic_salary"`
	TotalAllowances Amount `json:"total_allowances"`
	TotalDeductions Amount `json:"total_deductions"`
	GrossPay        Amount `json:"gross_pay"`
	NetPay          Amount `json:"net_pay"`
}

func sumItems(items []PayItem) Amount {
	var total Amount
	for _, item := range items {
		total += item.Amount
	}
	return total
}

// Totals computes gross pay (basic + allowances) and net pay (gross - deductions).
func (p Payslip) Totals() PayslipTotals {
	allowances := sumItems(p.Allowances)
	deductions := sumItems(p.Deductions)
	gross := p.BasicSalary + allowances
	return PayslipTotals{
		BasicSalary:     p.BasicSalary,
		TotalAllowances: allowances,
		TotalDeductions: deductions,
		GrossPay:        gross,
		NetPay:          gross - deductions,
	}
}

// PayPeriod parses Period into the first day of the month.
func (p Payslip) PayPeriod() (time.Time, error) {
	return time.Parse(PeriodLayout, strings.TrimSpace(p.Period))
}

// Validate enforces the payslip rules: an identified employee, a positive basic salary, a
// parseable period and fully filled allowance/deduction lines.
func (p Payslip) Validate() error {
	if strings.TrimSpace(p.EmployeeName) == "" {
		return MissingField("employee_name")
	}
	if strings.TrimSpace(p.EmployeeID) == "" {
		return MissingField("employee_id")
	}
	if p.BasicSalary.IsZero() {
		return MissingField("basic_salary")
	}
	if p.BasicSalary.IsNegative() {
		return newValidationError(KindInvalidAmount, "basic_salary", "basic_salary must be positive")
	}
	if strings.TrimSpace(p.Period) == "" {
		return MissingField("period")
	}
	if _, err := p.PayPeriod(); err != nil {
		return newValidationError(KindInvalidDate, "period", "invalid period %q, expected YYYY-MM", p.Period)
	}
	if err := validateItems("allowances", p.Allowances); err != nil {
		return err
	}
	if err := validateItems("deductions", p.Deductions); err != nil {
		return err
	}
	return p.checkTotals()
}

// checkTotals rejects payslips whose sums would overflow when Totals runs.
func (p Payslip) checkTotals() error {
	gross := p.BasicSalary
	for _, item := range p.Allowances {
		var ok bool
		if gross, ok = gross.CheckedAdd(item.Amount); !ok {
			return OutOfRange("allowances")
		}
	}
	var deductions Amount
	for _, item := range p.Deductions {
		var ok bool
		if deductions, ok = deductions.CheckedAdd(item.Amount); !ok {
			return OutOfRange("deductions")
		}
	}
	return nil
}

func validateItems(field string, items []PayItem) error {
	for i, item := range items {
		name := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(item.Name) == "" {
			return MissingField(name + ".name")
		}
		if item.Amount.IsZero() {
			return MissingField(name + ".amount")
		}
		if item.Amount.IsNegative() {
			return newValidationError(KindInvalidAmount, name+".amount", "amount must be positive")
		}
	}
	return nil
}

// ApplyDefaults trims identifying fields and fills in the currency.
func (p *Payslip) ApplyDefaults() {
	p.EmployeeName = strings.TrimSpace(p.EmployeeName)
	p.EmployeeID = strings.TrimSpace(p.EmployeeID)
	p.Period = strings.TrimSpace(p.Period)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
}
