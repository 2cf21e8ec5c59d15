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
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jerry-enebeli/paydocs/model"
)

// MaxTransactions caps the number of rows accepted in one request.
const MaxTransactions = 5000

var currencyCode = regexp.MustCompile(`^[A-Za-z]{3}$`)

type Account struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	BankLogo      string `json:"bank_logo"`
	Currency      string `json:"currency"`
	PeriodFrom    string `json:"period_from"`
	PeriodTo      string `json:"period_to"`
}

type ComputeLedger struct {
	InitialBalance model.Amount             `json:"initial_balance"`
	Transactions   []model.TransactionEntry `json:"transactions"`
}

type CreateDraft struct {
	Account        Account      `json:"account"`
	InitialBalance model.Amount `json:"initial_balance"`
}

type SetInitialBalance struct {
	InitialBalance *model.Amount `json:"initial_balance"`
}

type GenerateStatement struct {
	Account        Account                  `json:"account"`
	InitialBalance model.Amount             `json:"initial_balance"`
	Transactions   []model.TransactionEntry `json:"transactions"`
}

type GenerateDraftStatement struct {
	Account *Account `json:"account,omitempty"`
}

func validateDate(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := model.ParseDate(s); err != nil {
		return errors.New("must be a date formatted as YYYY-MM-DD")
	}
	return nil
}

func (a *Account) ValidateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AccountHolder, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.AccountNumber, validation.Required, validation.Length(1, 64)),
		validation.Field(&a.Currency, validation.Match(currencyCode).Error("must be a 3 letter currency code")),
		validation.Field(&a.PeriodFrom, validation.By(validateDate)),
		validation.Field(&a.PeriodTo, validation.By(validateDate)),
	)
}

// ToAccountDetails converts the request account. Dates are optional here; a
// statement fills missing ones from its transactions.
func (a Account) ToAccountDetails() (model.AccountDetails, error) {
	details := model.AccountDetails{
		AccountHolder: a.AccountHolder,
		AccountNumber: a.AccountNumber,
		BankName:      a.BankName,
		BankLogo:      a.BankLogo,
		Currency:      a.Currency,
	}
	var err error
	if strings.TrimSpace(a.PeriodFrom) != "" {
		if details.PeriodFrom, err = model.ParseDate(a.PeriodFrom); err != nil {
			return model.AccountDetails{}, err
		}
	}
	if strings.TrimSpace(a.PeriodTo) != "" {
		if details.PeriodTo, err = model.ParseDate(a.PeriodTo); err != nil {
			return model.AccountDetails{}, err
		}
	}
	details.ApplyDefaults()
	return details, nil
}

func (l *ComputeLedger) ValidateComputeLedger() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Transactions, validation.Length(0, MaxTransactions)),
	)
}

func (d *CreateDraft) ValidateCreateDraft() error {
	return d.Account.ValidateAccount()
}

func (s *SetInitialBalance) ValidateSetInitialBalance() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.InitialBalance, validation.NotNil),
	)
}

func (g *GenerateStatement) ValidateGenerateStatement() error {
	if err := g.Account.ValidateAccount(); err != nil {
		return err
	}
	return validation.ValidateStruct(g,
		validation.Field(&g.Transactions, validation.Length(0, MaxTransactions)),
	)
}

func (g *GenerateDraftStatement) ValidateGenerateDraftStatement() error {
	if g.Account == nil {
		return nil
	}
	return g.Account.ValidateAccount()
}
