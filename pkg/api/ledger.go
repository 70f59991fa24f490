package api

// LedgerParticipant is a roster entry given to the stateless calculations.
type LedgerParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LedgerExpense is an expense given to the stateless calculations.
type LedgerExpense struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	PaidBy       Shares  `json:"paidBy"`
	SplitDetails Shares  `json:"splitDetails"`
	Category     string  `json:"category"`
	Date         string  `json:"date"`
}

// Balance is a participant's net position: positive means they are owed
// money, negative means they owe.
type Balance struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name,omitempty"`
	Amount        float64 `json:"amount"`
}

// Transaction is a proposed transfer from a debtor to a creditor.
type Transaction struct {
	FromParticipantID string  `json:"fromParticipantId"`
	ToParticipantID   string  `json:"toParticipantId"`
	Amount            float64 `json:"amount"`
}

type ParticipantTotal struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
}

// DailyTotal is one day's spending, with what each roster participant paid
// that day.
type DailyTotal struct {
	Date    string              `json:"date"`
	Amount  float64             `json:"amount"`
	ByPayer []*ParticipantTotal `json:"byPayer"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Summary aggregates a group's spending. Settlements are not spending and
// are left out. SpentBy is what each participant paid and ShareBy what
// their share of the spending came to.
type Summary struct {
	SpentBy    []*ParticipantTotal `json:"spentBy"`
	ShareBy    []*ParticipantTotal `json:"shareBy"`
	Daily      []*DailyTotal       `json:"daily"`
	ByCategory []*CategoryTotal    `json:"byCategory"`
	Total      float64             `json:"total"`
}

type CalculateBalancesRequest struct {
	Participants []*LedgerParticipant `json:"participants"`
	Expenses     []*LedgerExpense     `json:"expenses"`
}

type CalculateBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSuggestedPayerRequest struct {
	Balances []*Balance `json:"balances"`
}

type GetSuggestedPayerResponse struct {
	// ParticipantID is empty when everyone is settled.
	ParticipantID string `json:"participantId"`
}

type CalculateSettlementsRequest struct {
	Balances []*Balance `json:"balances"`
}

type CalculateSettlementsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetGroupLedgerRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupLedgerResponse struct {
	Group          *Group         `json:"group"`
	Balances       []*Balance     `json:"balances"`
	SuggestedPayer string         `json:"suggestedPayer"`
	Settlements    []*Transaction `json:"settlements"`
	Summary        *Summary       `json:"summary"`
}

type SettleUpRequest struct {
	GroupID           string  `json:"groupId"`
	FromParticipantID string  `json:"fromParticipantId"`
	ToParticipantID   string  `json:"toParticipantId"`
	Amount            float64 `json:"amount"`
	// Date defaults to today (UTC) when empty.
	Date string `json:"date"`
}

type SettleUpResponse struct {
	Expense *Expense `json:"expense"`
}
