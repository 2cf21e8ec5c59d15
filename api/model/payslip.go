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
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jerry-enebeli/paydocs/model"
)

// Payslip is the flat payslip form, optionally naming the issuing company.
type Payslip struct {
	CompanyName string `json:"company_name"`
	model.Payslip
}

func (p *Payslip) ValidatePayslip() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.EmployeeName, validation.Required),
		validation.Field(&p.EmployeeID, validation.Required),
		validation.Field(&p.Period, validation.Required, validation.Date(model.PeriodLayout).Error("must be formatted as YYYY-MM")),
		validation.Field(&p.Currency, validation.Match(currencyCode).Error("must be a 3 letter currency code")),
		validation.Field(&p.BasicSalary, validation.Required, validation.By(positiveAmount)),
		validation.Field(&p.Allowances, validation.Each(validation.By(validPayItem))),
		validation.Field(&p.Deductions, validation.Each(validation.By(validPayItem))),
	)
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(model.Amount)
	if !ok {
		return errors.New("invalid amount")
	}
	if amount.IsNegative() {
		return errors.New("must be positive")
	}
	return nil
}

func validPayItem(value interface{}) error {
	item, ok := value.(model.PayItem)
	if !ok {
		return errors.New("invalid item")
	}
	return validation.ValidateStruct(&item,
		validation.Field(&item.Name, validation.Required),
		validation.Field(&item.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

// RecentQuery is the query string accepted by the recent documents endpoints.
type RecentQuery struct {
	Limit int `form:"limit"`
}

func (q *RecentQuery) ValidateRecentQuery() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}
