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

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places carried by an Amount.
const MinorUnitPlaces = 2

// MaxMinorUnits bounds a single amount to 10^15 major units.
const MaxMinorUnits = 100_000_000_000_000_000

var (
	maxAmount = decimal.NewFromInt(MaxMinorUnits)
	minAmount = decimal.NewFromInt(-MaxMinorUnits)
)

// Amount is a signed money value held in integer minor units (cents).
// All ledger arithmetic happens on Amount so that repeated additions stay exact;
// conversion to and from decimal text only happens at the boundary.
type Amount int64

// ParseAmount parses a decimal string such as "1500", "-200.5" or "12.345" into an Amount.
// Values with more than two decimal places are rounded half away from zero.
func ParseAmount(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a decimal value into minor units.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	minor := d.Round(MinorUnitPlaces).Shift(MinorUnitPlaces)
	if minor.GreaterThan(maxAmount) || minor.LessThan(minAmount) {
		return 0, OutOfRange("amount")
	}
	return Amount(minor.IntPart()), nil
}

// CheckedAdd returns a+b and false when the sum does not fit in an Amount.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -MinorUnitPlaces)
}

// String renders the amount with exactly two decimal places.
func (a Amount) String() string {
	return a.Decimal().StringFixed(MinorUnitPlaces)
}

func (a Amount) IsZero() bool {
	return a == 0
}

func (a Amount) IsNegative() bool {
	return a < 0
}

// Abs returns the absolute value of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// MarshalJSON encodes the amount as a fixed two-decimal string, e.g. "1500.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string. An empty string decodes to zero,
// matching form inputs that were left blank.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" || raw == `""` {
		*a = 0
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", raw, err)
	}
	parsed, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
