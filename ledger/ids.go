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

package ledger

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jerry-enebeli/paydocs/model"
)

const (
	// TransactionIDPrefix starts every timestamp-scheme transaction id.
	TransactionIDPrefix = "TXN"

	IDSchemeTimestamp = "timestamp"
	IDSchemeUUID      = "uuid"

	maxIDAttempts = 32
)

// IDGenerator assigns ids to transactions submitted without one. exists reports whether an id
// is already used in the ledger being edited.
type IDGenerator interface {
	Generate(exists func(id string) bool) string
}

// TimestampIDs produces ids shaped "TXN" + last 6 digits of the epoch millisecond clock +
// a zero-padded 4-digit random number, e.g. "TXN4821930042". The shape alone does not
// guarantee uniqueness, so a draw that collides with an id in the ledger is redrawn; if every
// attempt collides the generator falls back to a UUID-based id.
type TimestampIDs struct {
	Now  func() time.Time
	Rand func(n int) int
}

func (g TimestampIDs) Generate(exists func(id string) bool) string {
	now := g.Now
	if now == nil {
		now = time.Now
	}
	draw := g.Rand
	if draw == nil {
		draw = rand.IntN
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := fmt.Sprintf("%s%06d%04d", TransactionIDPrefix, now().UnixMilli()%1_000_000, draw(10_000))
		if exists == nil || !exists(id) {
			return id
		}
	}
	return model.GenerateUUIDWithSuffix("txn")
}

// UUIDIDs produces "txn_<uuid>" ids.
type UUIDIDs struct{}

func (UUIDIDs) Generate(_ func(id string) bool) string {
	return model.GenerateUUIDWithSuffix("txn")
}

// NewIDGenerator returns the generator for a configured scheme. An empty scheme selects the
// timestamp scheme.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", IDSchemeTimestamp:
		return TimestampIDs{}, nil
	case IDSchemeUUID:
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown transaction id scheme %q", scheme)
	}
}
