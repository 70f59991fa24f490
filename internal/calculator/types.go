// Package calculator is the ledger engine: it turns a roster and an expense
// history into net balances, a suggested next payer, and a settlement plan.
//
// Every function here is pure. Inputs are never mutated and nothing is cached
// between calls, so they are safe to call from concurrent requests.
package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// settledEpsilon is the magnitude below which a balance counts as zero.
const settledEpsilon = 0.01

// minTransfer is the smallest settled amount that produces a transaction.
const minTransfer = 0.005

// Participant is a member of a group's roster.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Share is one participant's amount within an expense (contributed or owed).
type Share struct {
	ParticipantID string
	Amount        float64
}

// Shares is an ordered set of per-participant amounts. It encodes as a JSON
// object and keeps the key order of the document it was decoded from, which
// decides where participants missing from the roster land in a balance list.
type Shares []Share

// Get returns the amount for id, or zero when id has no share.
func (s Shares) Get(id string) float64 {
	for _, share := range s {
		if share.ParticipantID == id {
			return share.Amount
		}
	}
	return 0
}

// IDs returns the participant IDs in order.
func (s Shares) IDs() []string {
	ids := make([]string, len(s))
	for i, share := range s {
		ids[i] = share.ParticipantID
	}
	return ids
}

// Sum returns the total of all shares.
func (s Shares) Sum() float64 {
	var total float64
	for _, share := range s {
		total += share.Amount
	}
	return total
}

// Clone returns a copy that does not alias s.
func (s Shares) Clone() Shares {
	if s == nil {
		return nil
	}
	out := make(Shares, len(s))
	copy(out, s)
	return out
}

// MarshalJSON encodes the shares as a JSON object in order. Nil encodes as {}.
func (s Shares) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, share := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(share.ParticipantID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(share.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order. A repeated key
// replaces the earlier amount in place.
func (s *Shares) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("shares: expected a JSON object, got %v", tok)
	}

	out := Shares{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("shares: expected a participant id, got %v", tok)
		}
		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("shares[%s]: %w", id, err)
		}
		if i, seen := index[id]; seen {
			out[i].Amount = amount
			continue
		}
		index[id] = len(out)
		out = append(out, Share{ParticipantID: id, Amount: amount})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Expense is a single entry in a group's history.
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // Nominal total
	PaidBy      Shares  `json:"paidBy"`
	// SplitDetails is what each participant owes for this expense.
	SplitDetails Shares `json:"splitDetails"`
	Category     string `json:"category"`
	Date         string `json:"date"`
}

// Balance is a participant's net position.
type Balance struct {
	ParticipantID string  `json:"participantId"`
	Amount        float64 `json:"amount"` // Positive = owed money, Negative = owes money
}

// Transaction is a proposed transfer from a debtor to a creditor.
type Transaction struct {
	FromParticipantID string  `json:"fromParticipantId"`
	ToParticipantID   string  `json:"toParticipantId"`
	Amount            float64 `json:"amount"`
}
